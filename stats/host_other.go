//go:build !linux

package stats

import "errors"

func SampleHost() (HostSample, error) {
	return HostSample{}, errors.ErrUnsupported
}
