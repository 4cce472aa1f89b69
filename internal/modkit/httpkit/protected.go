package httpkit

// Protected groups routes behind the api key, a blank key leaves them open
func Protected(r Router, key string, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(APIKey(key))
		fn(gr)
	})
}
