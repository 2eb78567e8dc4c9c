//go:build !dlib

package dlib

import (
	"context"
	"errors"

	"github.com/saturnino-fabrica-de-software/facecheck/internal/provider"
)

// Available reports whether this binary was built with dlib support
const Available = false

var errNotBuilt = errors.New("dlib support not compiled in, rebuild with -tags dlib")

type Provider struct{}

func New(string) (*Provider, error) {
	return nil, errNotBuilt
}

func (p *Provider) Detect(context.Context, []byte) ([]provider.DetectedFace, error) {
	return nil, errNotBuilt
}

func (p *Provider) Close() error { return nil }

var _ provider.Detector = (*Provider)(nil)
