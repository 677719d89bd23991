// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwcheck

import "sort"

// A Port binds a boundary net of the top level circuit to the name of the IO
// device carrying it.
//
type Port struct {
	Name string // device name
	Net  string
	Bits int
}

// PortSet holds the port descriptors of a model, sorted by net name.
//
type PortSet struct {
	Inputs  []Port
	Outputs []Port

	in, out map[string]Port
}

// Ports returns the port descriptors of the top level circuit of m.
//
func (m *Model) Ports() *PortSet {
	ps := &PortSet{in: make(map[string]Port), out: make(map[string]Port)}
	for _, d := range m.Top().Devices {
		io, ok := d.(*IO)
		if !ok {
			continue
		}
		p := Port{Name: io.Label, Net: io.NetName(), Bits: io.Bits}
		if io.Output {
			ps.Outputs = append(ps.Outputs, p)
			ps.out[p.Net] = p
		} else {
			ps.Inputs = append(ps.Inputs, p)
			ps.in[p.Net] = p
		}
	}
	sortPorts(ps.Inputs)
	sortPorts(ps.Outputs)
	return ps
}

func sortPorts(ps []Port) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Net != ps[j].Net {
			return ps[i].Net < ps[j].Net
		}
		return ps[i].Name < ps[j].Name
	})
}

// Input returns the input port for the given net.
//
func (ps *PortSet) Input(net string) (Port, bool) {
	p, ok := ps.in[net]
	return p, ok
}

// Output returns the output port for the given net.
//
func (ps *PortSet) Output(net string) (Port, bool) {
	p, ok := ps.out[net]
	return p, ok
}
