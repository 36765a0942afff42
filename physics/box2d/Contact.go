package box2d

import (
	"github.com/ByteArena/box2d"

	"github.com/ZararB/DogWalker/physics"
)

// contactDetector listens for contacts that begin during a tick. Box2D
// only reports currently touching contacts through a body's contact
// list, so a touch that begins and ends within one tick would otherwise
// be missed.
type contactDetector struct {
	env *Engine

	// begun maps a body to the bodies it started touching this tick
	begun map[physics.Handle][]physics.Handle
	total int
}

func newContactDetector(e *Engine) *contactDetector {
	return &contactDetector{env: e, begun: make(map[physics.Handle][]physics.Handle)}
}

func (c *contactDetector) reset() {
	c.begun = make(map[physics.Handle][]physics.Handle)
	c.total = 0
}

// beginTick forgets the contacts that began during the previous tick
func (c *contactDetector) beginTick() {
	for h := range c.begun {
		delete(c.begun, h)
	}
}

func (c *contactDetector) begunWith(h physics.Handle) []physics.Handle {
	return c.begun[h]
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	a, okA := c.env.bodies[contact.GetFixtureA().GetBody()]
	b, okB := c.env.bodies[contact.GetFixtureB().GetBody()]
	if !okA || !okB {
		return
	}

	c.begun[a] = append(c.begun[a], b)
	c.begun[b] = append(c.begun[b], a)
	c.total++
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}
