// Package layout resolves the roles instances play in a multi-machine
// benchmark environment from a static layout file.
package layout

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Role is a logical participant category in a multi-machine layout.
type Role string

const (
	RoleClient Role = "Client"
	RoleServer Role = "Server"
)

// ClientInstance identifies one participant in the layout.
// Immutable once resolved.
type ClientInstance struct {
	Name    string `yaml:"name"`
	Role    Role   `yaml:"role"`
	Address string `yaml:"address"`
}

// Provider returns the set of instances assigned a given role.
type Provider interface {
	// ListInstances returns instances with the given role, in layout order.
	ListInstances(role Role) []ClientInstance
}

// StaticLayout is a Provider backed by a fixed list of instances.
type StaticLayout struct {
	Instances []ClientInstance `yaml:"instances"`
}

// LoadStaticLayout reads a YAML layout file of the form:
//
//	instances:
//	  - name: client01
//	    role: Client
//	    address: 10.0.0.1
//	  - name: server01
//	    role: Server
//	    address: 10.0.0.2
func LoadStaticLayout(path string) (*StaticLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	l := &StaticLayout{}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, errors.Wrapf(err, "failed to parse layout file %s", path)
	}
	return l, nil
}

func (l *StaticLayout) ListInstances(role Role) []ClientInstance {
	var rv []ClientInstance
	for _, instance := range l.Instances {
		if instance.Role == role {
			rv = append(rv, instance)
		}
	}
	return rv
}
