package fetchx

// DefaultEngine backs the package-level convenience functions. Its
// default proxy is seeded once, at process start, from the lowercase
// http_proxy environment variable.
var DefaultEngine = NewEngine(nil)

// Request dispatches method+url on the default engine. done receives
// the final response exactly once unless the handle is cancelled first.
func Request(method, url string, opts *Options, done func(*Response)) *Handle {
	return DefaultEngine.Request(method, url, opts, done)
}

func Get(url string, done func(*Response)) *Handle {
	return DefaultEngine.Request("GET", url, nil, done)
}

func Head(url string, done func(*Response)) *Handle {
	return DefaultEngine.Request("HEAD", url, nil, done)
}

func Post(url string, body []byte, done func(*Response)) *Handle {
	return DefaultEngine.Request("POST", url, &Options{Body: body}, done)
}

// Active mirrors Engine.Active on the default engine.
func Active() int {
	return DefaultEngine.Active()
}

// Do runs a request synchronously and returns the final response.
// Local failures surface as pseudo-status 595-599, never as an error.
func (e *Engine) Do(method, url string, opts *Options) *Response {
	ch := make(chan *Response, 1)
	e.Request(method, url, opts, func(r *Response) { ch <- r })
	return <-ch
}
