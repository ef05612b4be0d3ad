package services

// ServiceError is a typed error with an HTTP status code, returned by every
// service method and mapped to JSON by the controllers.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string { return e.Message }
