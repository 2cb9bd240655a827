package linkedit

import "fmt"

func port(node string, side Side, index int, typ string) Port {
	return Port{NodeID: node, Side: side, Index: index, Type: typ, Name: fmt.Sprintf("%s%d", typ, index)}
}

// loader has outputs IMAGE, LATENT, *.
var loader = Node{
	ID:   "1",
	Type: "Loader",
	Outputs: []Port{
		port("1", SideOutput, 0, "IMAGE"),
		port("1", SideOutput, 1, "LATENT"),
		port("1", SideOutput, 2, "*"),
	},
}

// sampler has inputs IMAGE, LATENT, IMAGE, IMAGE, MASK.
var sampler = Node{
	ID:   "2",
	Type: "Sampler",
	Inputs: []Port{
		port("2", SideInput, 0, "IMAGE"),
		port("2", SideInput, 1, "LATENT"),
		port("2", SideInput, 2, "IMAGE"),
		port("2", SideInput, 3, "IMAGE"),
		port("2", SideInput, 4, "MASK"),
	},
	Outputs: []Port{
		port("2", SideOutput, 0, "LATENT"),
	},
}

func out(n Node, i int) *Port {
	p, _ := n.Port(SideOutput, i)
	return &p
}

func in(n Node, i int) *Port {
	p, _ := n.Port(SideInput, i)
	return &p
}

// counterTokens yields d1, d2, ... so draft ids are predictable.
func counterTokens() SessionOption {
	n := 0
	return WithTokenSource(func() string {
		n++
		return fmt.Sprintf("d%d", n)
	})
}

func openTest(links ...GraphLink) Session {
	return OpenSession(loader, sampler, links, counterTokens())
}

// connect drags from an output and drops on an input.
func connect(s Session, from, to *Port) (Session, Outcome) {
	return s.BeginDrag(*from).Drop(to)
}
