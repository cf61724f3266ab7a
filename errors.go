package phosphorus

import "github.com/jkrueger/phosphorus/xerr"

// The renderer's error taxonomy lives in xerr so that scene and xpu can
// report and recognize it without importing this root package. These
// aliases keep it addressable as phosphorus.ConfigError etc. for callers
// of the top-level API.
type (
	ConfigError     = xerr.ConfigError
	ResourceError   = xerr.ResourceError
	GeometryError   = xerr.GeometryError
	Cancelled       = xerr.Cancelled
	NumericCounters = xerr.NumericCounters
)
