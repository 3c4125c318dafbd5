package dlsim

import "errors"

// ErrInvalidConfig is returned by registration or construction when a
// configuration value is out of its valid range.
var ErrInvalidConfig = errors.New("dlsim: invalid configuration")

// ErrAlreadyRegistered is returned by [Simulator.RegisterEndpoint] when the
// given id is already in use.
var ErrAlreadyRegistered = errors.New("dlsim: endpoint id already registered")
