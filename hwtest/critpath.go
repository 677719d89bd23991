// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/db47h/hwcheck"
	"github.com/pkg/errors"
)

// A Link identifies a connector of a flattened circuit: connector Conn of the
// circuit instance Scope.
//
type Link struct {
	Scope int
	Conn  int
}

func (l Link) less(o Link) bool {
	if l.Scope != o.Scope {
		return l.Scope < o.Scope
	}
	return l.Conn < o.Conn
}

func sortLinks(ls []Link) {
	sort.Slice(ls, func(i, j int) bool { return ls[i].less(ls[j]) })
}

// Graph is the dependency graph of a flattened circuit: nodes are connectors,
// weighted edges go from the inbound connectors of a device to its outbound
// connectors.
//
type Graph struct {
	nodes   []Link
	known   map[Link]bool
	preds   map[Link]map[Link]int
	succ    map[Link][]Link
	outputs map[string][]Link
	labels  map[Link]string
}

// NewGraph returns an empty graph.
//
func NewGraph() *Graph {
	return &Graph{
		known:   make(map[Link]bool),
		preds:   make(map[Link]map[Link]int),
		succ:    make(map[Link][]Link),
		outputs: make(map[string][]Link),
		labels:  make(map[Link]string),
	}
}

// AddNode adds l to the graph.
//
func (g *Graph) AddNode(l Link) {
	if g.known[l] {
		return
	}
	g.known[l] = true
	g.nodes = append(g.nodes, l)
}

// AddEdge adds an edge of weight w. Parallel edges are merged, keeping the
// highest weight.
//
func (g *Graph) AddEdge(from, to Link, w int) {
	g.AddNode(from)
	g.AddNode(to)
	ps := g.preds[to]
	if ps == nil {
		ps = make(map[Link]int)
		g.preds[to] = ps
	}
	if old, ok := ps[from]; ok {
		if w > old {
			ps[from] = w
		}
		return
	}
	ps[from] = w
	g.succ[from] = append(g.succ[from], to)
}

// AddOutput marks l as driving the circuit output net.
//
func (g *Graph) AddOutput(net string, l Link) {
	g.AddNode(l)
	g.outputs[net] = append(g.outputs[net], l)
}

// Len returns the node count.
//
func (g *Graph) Len() int { return len(g.nodes) }

// BuildGraph flattens m into a dependency graph. Each subcircuit instance gets
// its own scope, and connectors crossing an instance boundary are joined by
// zero weight edges.
//
func BuildGraph(m *hwcheck.Model) (*Graph, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}
	g := NewGraph()
	scopes := 0
	var build func(ci int, path string) int
	build = func(ci int, path string) int {
		sc := scopes
		scopes++
		c := m.Circuits[ci]
		for i, cn := range c.Conns {
			l := Link{sc, i}
			g.AddNode(l)
			g.labels[l] = path + c.Devices[cn.From.Device].Name() + "." + cn.From.Port + " -> " +
				c.Devices[cn.To.Device].Name() + "." + cn.To.Port
		}
		for di, d := range c.Devices {
			sub, ok := d.(*hwcheck.Subcircuit)
			if !ok {
				for _, il := range c.Inbound(di) {
					for _, ol := range c.Outbound(di) {
						g.AddEdge(Link{sc, il}, Link{sc, ol}, d.Delay())
					}
				}
				continue
			}
			inner := build(sub.Circuit, path+d.Name()+"/")
			def := m.Circuits[sub.Circuit]
			for _, il := range c.Inbound(di) {
				pin, _ := def.IO(c.Conns[il].To.Port, false)
				for _, ol := range def.Outbound(pin) {
					g.AddEdge(Link{sc, il}, Link{inner, ol}, 0)
				}
			}
			for _, ol := range c.Outbound(di) {
				pin, _ := def.IO(c.Conns[ol].From.Port, true)
				for _, il := range def.Inbound(pin) {
					g.AddEdge(Link{inner, il}, Link{sc, ol}, 0)
				}
			}
		}
		return sc
	}
	build(0, "")
	top := m.Top()
	for di, d := range top.Devices {
		if o, ok := d.(*hwcheck.IO); ok && o.Output {
			for _, il := range top.Inbound(di) {
				g.AddOutput(o.NetName(), Link{0, il})
			}
		}
	}
	return g, nil
}

// TopoSort returns the nodes of g in topological order. Among the nodes whose
// predecessors have all been emitted, the least in (Scope, Conn) order comes
// first. It returns ErrCyclicCircuit if g has a cycle.
//
func (g *Graph) TopoSort() ([]Link, error) {
	deg := make(map[Link]int, len(g.nodes))
	var ready []Link
	for _, l := range g.nodes {
		if deg[l] = len(g.preds[l]); deg[l] == 0 {
			ready = append(ready, l)
		}
	}
	sortLinks(ready)
	order := make([]Link, 0, len(g.nodes))
	for len(ready) > 0 {
		l := ready[0]
		ready = ready[1:]
		order = append(order, l)
		for _, s := range g.succ[l] {
			if deg[s]--; deg[s] == 0 {
				ready = insertLink(ready, s)
			}
		}
	}
	if len(order) != len(g.nodes) {
		return nil, ErrCyclicCircuit
	}
	return order, nil
}

// insertLink inserts l into the sorted slice ls.
func insertLink(ls []Link, l Link) []Link {
	i := sort.Search(len(ls), func(i int) bool { return l.less(ls[i]) })
	ls = append(ls, Link{})
	copy(ls[i+1:], ls[i:])
	ls[i] = l
	return ls
}

// Delays returns the longest path delay from any source to each node.
//
func (g *Graph) Delays() (map[Link]int, error) {
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	cp := make(map[Link]int, len(order))
	for _, l := range order {
		d := 0
		for p, w := range g.preds[l] {
			if v := cp[p] + w; v > d {
				d = v
			}
		}
		cp[l] = d
	}
	return cp, nil
}

// OutputDelays returns the worst case delay of each circuit output.
//
func (g *Graph) OutputDelays() (map[string]int, error) {
	cp, err := g.Delays()
	if err != nil {
		return nil, err
	}
	ds := make(map[string]int, len(g.outputs))
	for net, ls := range g.outputs {
		d := 0
		for _, l := range ls {
			if cp[l] > d {
				d = cp[l]
			}
		}
		ds[net] = d
	}
	return ds, nil
}

// Check returns a *CriticalPathError for each output whose delay exceeds
// bound, sorted by output name, or ErrCyclicCircuit.
//
func (g *Graph) Check(bound int) []error {
	ds, err := g.OutputDelays()
	if err != nil {
		return []error{err}
	}
	nets := make([]string, 0, len(ds))
	for n := range ds {
		nets = append(nets, n)
	}
	sort.Strings(nets)
	var errs []error
	for _, n := range nets {
		if ds[n] > bound {
			errs = append(errs, &CriticalPathError{Output: n, Delay: ds[n], Bound: bound})
		}
	}
	return errs
}

// CriticalPath checks that no output of m has a propagation delay greater
// than bound.
//
func CriticalPath(m *hwcheck.Model, bound int) []error {
	g, err := BuildGraph(m)
	if err != nil {
		return []error{errors.Wrap(err, "invalid model")}
	}
	return g.Check(bound)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// WriteDot writes g in Graphviz dot format. Node labels include the node
// delay when g is acyclic.
//
func (g *Graph) WriteDot(w io.Writer) error {
	cp, _ := g.Delays()
	ids := make(map[Link]string, len(g.nodes))
	nodes := append([]Link(nil), g.nodes...)
	sortLinks(nodes)
	var sb strings.Builder
	sb.WriteString("digraph circuit {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n\n")
	for i, l := range nodes {
		id := fmt.Sprintf("n%d", i)
		ids[l] = id
		label, ok := g.labels[l]
		if !ok {
			label = fmt.Sprintf("%d:%d", l.Scope, l.Conn)
		}
		label = dotEscaper.Replace(label)
		if cp != nil {
			label = fmt.Sprintf("%s\\n%d", label, cp[l])
		}
		sb.WriteString(fmt.Sprintf("  %s [label=\"%s\"];\n", id, label))
	}
	sb.WriteString("\n")
	for _, l := range nodes {
		next := append([]Link(nil), g.succ[l]...)
		sortLinks(next)
		for _, s := range next {
			sb.WriteString(fmt.Sprintf("  %s -> %s [label=\"%d\"];\n", ids[l], ids[s], g.preds[s][l]))
		}
	}
	nets := make([]string, 0, len(g.outputs))
	for n := range g.outputs {
		nets = append(nets, n)
	}
	sort.Strings(nets)
	for _, n := range nets {
		sb.WriteString(fmt.Sprintf("  %q [shape=plaintext];\n", n))
		for _, l := range g.outputs[n] {
			sb.WriteString(fmt.Sprintf("  %s -> %q;\n", ids[l], n))
		}
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
