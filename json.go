// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwcheck

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/db47h/hwcheck/ternary"
	"github.com/pkg/errors"
)

type jsonEndpoint struct {
	ID   string `json:"id"`
	Port string `json:"port"`
}

type jsonConn struct {
	From jsonEndpoint `json:"from"`
	To   jsonEndpoint `json:"to"`
}

// jsonBits accepts either a plain width or a per-pin object like
// {"in": 8, "sel": 2}.
type jsonBits struct {
	In, Out, Sel int
}

func (b *jsonBits) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		b.In, b.Out = n, n
		return nil
	}
	var o struct {
		In  int `json:"in"`
		Out int `json:"out"`
		Sel int `json:"sel"`
	}
	if err := json.Unmarshal(data, &o); err != nil {
		return errors.Wrap(err, "bits")
	}
	b.In, b.Out, b.Sel = o.In, o.Out, o.Sel
	if b.In == 0 {
		b.In = b.Out
	}
	return nil
}

type jsonPolarity struct {
	Clock *bool `json:"clock"`
}

type jsonPort struct {
	ClockPolarity *bool `json:"clock_polarity"`
}

type jsonDevice struct {
	Type        string        `json:"type"`
	Net         string        `json:"net"`
	Bits        jsonBits      `json:"bits"`
	Propagation *int          `json:"propagation"`
	Constant    string        `json:"constant"`
	CellType    string        `json:"celltype"`
	Polarity    *jsonPolarity `json:"polarity"`
	AddrBits    int           `json:"abits"`
	ReadPorts   []jsonPort    `json:"rdports"`
	WritePorts  []jsonPort    `json:"wrports"`
}

type jsonCircuit struct {
	Devices     map[string]jsonDevice  `json:"devices"`
	Connectors  []jsonConn             `json:"connectors"`
	Subcircuits map[string]jsonCircuit `json:"subcircuits"`
}

// Load reads a JSON netlist in the format produced by the synthesis toolchain:
// an object with "devices" (keyed by device name), "connectors" and
// "subcircuits" (keyed by cell type, same shape without nested subcircuits).
//
func Load(r io.Reader) (*Model, error) {
	var jc jsonCircuit
	if err := json.NewDecoder(r).Decode(&jc); err != nil {
		return nil, errors.Wrap(err, "decode netlist")
	}
	m := NewModel(NewCircuit("top"))
	names := make([]string, 0, len(jc.Subcircuits))
	for n := range jc.Subcircuits {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		m.AddCircuit(NewCircuit(n))
	}
	if err := m.build(m.Top(), &jc); err != nil {
		return nil, err
	}
	for i, n := range names {
		sub := jc.Subcircuits[n]
		if len(sub.Subcircuits) > 0 {
			return nil, errors.New(n + ": nested subcircuit definitions")
		}
		if err := m.build(m.Circuits[i+1], &sub); err != nil {
			return nil, err
		}
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFile loads a JSON netlist from the named file.
//
func LoadFile(name string) (*Model, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Load(f)
	return m, errors.Wrap(err, name)
}

func (m *Model) build(c *Circuit, jc *jsonCircuit) error {
	names := make([]string, 0, len(jc.Devices))
	for n := range jc.Devices {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		d, err := m.device(n, jc.Devices[n])
		if err != nil {
			return errors.Wrap(err, c.Name)
		}
		if err = c.Add(d); err != nil {
			return err
		}
	}
	for _, cn := range jc.Connectors {
		if err := c.Connect(cn.From.ID, cn.From.Port, cn.To.ID, cn.To.Port); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) device(name string, jd jsonDevice) (Device, error) {
	prop := 1
	switch jd.Type {
	case "Input", "Output", "Subcircuit":
		prop = 0
	}
	if jd.Propagation != nil {
		prop = *jd.Propagation
	}
	b := Base{Label: name, Propagation: prop}
	switch jd.Type {
	case "":
		return nil, errors.New(name + ": missing device type")
	case "Input", "Output":
		return &IO{Base: b, Output: jd.Type == "Output", Net: jd.Net, Bits: jd.Bits.In}, nil
	case "Constant":
		v, err := ternary.Parse(jd.Constant)
		if err != nil {
			return nil, errors.Wrap(err, name)
		}
		return &Constant{Base: b, Value: v}, nil
	case "Dff":
		pol := true
		if jd.Polarity != nil && jd.Polarity.Clock != nil {
			pol = *jd.Polarity.Clock
		}
		return &Dff{Base: b, Bits: jd.Bits.In, Polarity: pol}, nil
	case "Memory":
		mem := &Memory{Base: b, Bits: jd.Bits.In, AddrBits: jd.AddrBits}
		for _, p := range jd.ReadPorts {
			mem.ReadPorts = append(mem.ReadPorts, ReadPort{Clocked: p.ClockPolarity})
		}
		for _, p := range jd.WritePorts {
			pol := true
			if p.ClockPolarity != nil {
				pol = *p.ClockPolarity
			}
			mem.WritePorts = append(mem.WritePorts, WritePort{Polarity: pol})
		}
		return mem, nil
	case "Subcircuit":
		for i := 1; i < len(m.Circuits); i++ {
			if m.Circuits[i].Name == jd.CellType {
				return &Subcircuit{Base: b, Circuit: i}, nil
			}
		}
		return nil, errors.New(name + ": unknown subcircuit type " + jd.CellType)
	}
	return &Gate{Base: b, Op: jd.Type, Bits: jd.Bits.In, SelBits: jd.Bits.Sel}, nil
}
