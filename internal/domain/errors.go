package domain

import "fmt"

// Sentinel errors for the domain layer.
var (
	ErrEmptyQuery  = fmt.Errorf("query must not be empty")
	ErrBadStatus   = fmt.Errorf("unexpected http status")
	ErrNoEngines   = fmt.Errorf("no search engines configured")
	ErrEngineOpen  = fmt.Errorf("engine circuit open")
	ErrNoRetriever = fmt.Errorf("retriever not registered")
)
