package actor

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are never integrated nor moved by collisions (e.g., ground, walls).
	// Collisions against them use the fixed resolver, so their mass is ignored.
	BodyTypeStatic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeStatic:
		return "static"
	default:
		return "unknown"
	}
}

type Material struct {
	Restitution float64 // 0= no rebound, 1= perfect restitution
	Friction    float64
}

// DefaultMaterial is the material given to every new body
var DefaultMaterial = Material{Restitution: 0.5}

// Attributes are the non-kinematic properties a world needs to handle a body
type Attributes struct {
	BodyType  BodyType
	Material  Material
	IsTrigger bool // triggers report events but are never resolved
}

func defaultAttributes() Attributes {
	return Attributes{BodyType: BodyTypeDynamic, Material: DefaultMaterial}
}

// Attrs gives access to the attributes through the Body interface
func (a *Attributes) Attrs() *Attributes {
	return a
}

func (a *Attributes) IsStatic() bool {
	return a.BodyType == BodyTypeStatic
}
