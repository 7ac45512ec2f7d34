package scene

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-logo/engine/light"
	"github.com/Carmen-Shannon/oxy-logo/engine/texture"
)

// ErrAttributeKind is returned when an attribute value does not match its type.
var ErrAttributeKind = errors.New("scene: attribute value does not match its type")

// AttributeType identifies one slot of the lighting environment.
type AttributeType int

const (
	// AmbientLight scales the image based lighting contribution. Float.
	AmbientLight AttributeType = iota
	// ShadowBias is the depth comparison bias of the shadow pass. Float.
	ShadowBias
	// BRDFLUTTexture is the split-sum BRDF lookup texture. Texture.
	BRDFLUTTexture
	// SpecularEnv is the prefiltered radiance cubemap. Cubemap.
	SpecularEnv
	// DiffuseEnv is the irradiance cubemap. Cubemap.
	DiffuseEnv
)

func (t AttributeType) String() string {
	switch t {
	case AmbientLight:
		return "AmbientLight"
	case ShadowBias:
		return "ShadowBias"
	case BRDFLUTTexture:
		return "BRDFLUTTexture"
	case SpecularEnv:
		return "SpecularEnv"
	case DiffuseEnv:
		return "DiffuseEnv"
	default:
		return fmt.Sprintf("AttributeType(%d)", int(t))
	}
}

// Attribute is a typed value stored in an Environment.
type Attribute interface {
	// Type returns the slot the attribute fills.
	Type() AttributeType
}

// FloatValue is a scalar environment attribute.
type FloatValue struct {
	kind  AttributeType
	Value float32
}

func (a FloatValue) Type() AttributeType { return a.kind }

// FloatAttribute creates a scalar attribute.
//
// Parameters:
//   - t: AmbientLight or ShadowBias
//   - v: the value
//
// Returns:
//   - FloatValue: the attribute
func FloatAttribute(t AttributeType, v float32) FloatValue {
	return FloatValue{kind: t, Value: v}
}

// TextureValue is a 2D texture environment attribute. The environment does not own the texture.
type TextureValue struct {
	kind    AttributeType
	Texture texture.Texture
}

func (a TextureValue) Type() AttributeType { return a.kind }

// TextureAttribute creates a texture attribute.
//
// Parameters:
//   - t: BRDFLUTTexture
//   - tex: the texture
//
// Returns:
//   - TextureValue: the attribute
func TextureAttribute(t AttributeType, tex texture.Texture) TextureValue {
	return TextureValue{kind: t, Texture: tex}
}

// CubemapValue is a cubemap environment attribute. The environment does not own the cubemap.
type CubemapValue struct {
	kind    AttributeType
	Cubemap texture.Cubemap
}

func (a CubemapValue) Type() AttributeType { return a.kind }

// CubemapAttribute creates a cubemap attribute.
//
// Parameters:
//   - t: SpecularEnv or DiffuseEnv
//   - c: the cubemap
//
// Returns:
//   - CubemapValue: the attribute
func CubemapAttribute(t AttributeType, c texture.Cubemap) CubemapValue {
	return CubemapValue{kind: t, Cubemap: c}
}

// environment is the implementation of the Environment interface.
type environment struct {
	mu *sync.Mutex

	attributes map[AttributeType]Attribute
	lights     []light.DirectionalLight
}

// Environment holds the lighting state shared by every instance in a scene:
// typed attributes and directional lights.
type Environment interface {
	// Set stores an attribute, replacing any previous value of the same type.
	//
	// Parameters:
	//   - a: the attribute
	//
	// Returns:
	//   - error: ErrAttributeKind if the value kind does not fit the type
	Set(a Attribute) error

	// Get returns the attribute stored for a type.
	//
	// Parameters:
	//   - t: the attribute type
	//
	// Returns:
	//   - Attribute: the attribute, nil if unset
	//   - bool: whether the attribute is set
	Get(t AttributeType) (Attribute, bool)

	// Remove clears an attribute slot.
	//
	// Parameters:
	//   - t: the attribute type
	Remove(t AttributeType)

	// Float returns a scalar attribute or the fallback when unset.
	//
	// Parameters:
	//   - t: the attribute type
	//   - fallback: the value used when the slot is empty
	//
	// Returns:
	//   - float32: the value
	Float(t AttributeType, fallback float32) float32

	// Texture returns a texture attribute, nil when unset.
	Texture(t AttributeType) texture.Texture

	// Cubemap returns a cubemap attribute, nil when unset.
	Cubemap(t AttributeType) texture.Cubemap

	// AddLight adds a directional light. Adding the same light twice is a no-op.
	//
	// Parameters:
	//   - l: the light
	AddLight(l light.DirectionalLight)

	// RemoveLight removes a directional light.
	//
	// Parameters:
	//   - l: the light
	//
	// Returns:
	//   - bool: whether the light was present
	RemoveLight(l light.DirectionalLight) bool

	// Lights returns a copy of the light list in insertion order.
	Lights() []light.DirectionalLight

	// Clear drops every attribute and light.
	Clear()
}

var _ Environment = &environment{}

// NewEnvironment creates an empty Environment.
//
// Returns:
//   - Environment: the environment
func NewEnvironment() Environment {
	return &environment{
		mu:         &sync.Mutex{},
		attributes: make(map[AttributeType]Attribute),
	}
}

func (e *environment) Set(a Attribute) error {
	if a == nil {
		return fmt.Errorf("scene: nil attribute: %w", ErrAttributeKind)
	}
	var ok bool
	switch a.Type() {
	case AmbientLight, ShadowBias:
		_, ok = a.(FloatValue)
	case BRDFLUTTexture:
		_, ok = a.(TextureValue)
	case SpecularEnv, DiffuseEnv:
		_, ok = a.(CubemapValue)
	}
	if !ok {
		return fmt.Errorf("scene: %T for %s: %w", a, a.Type(), ErrAttributeKind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.attributes[a.Type()] = a
	return nil
}

func (e *environment) Get(t AttributeType) (Attribute, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.attributes[t]
	return a, ok
}

func (e *environment) Remove(t AttributeType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.attributes, t)
}

func (e *environment) Float(t AttributeType, fallback float32) float32 {
	if a, ok := e.Get(t); ok {
		if f, ok := a.(FloatValue); ok {
			return f.Value
		}
	}
	return fallback
}

func (e *environment) Texture(t AttributeType) texture.Texture {
	if a, ok := e.Get(t); ok {
		if v, ok := a.(TextureValue); ok {
			return v.Texture
		}
	}
	return nil
}

func (e *environment) Cubemap(t AttributeType) texture.Cubemap {
	if a, ok := e.Get(t); ok {
		if v, ok := a.(CubemapValue); ok {
			return v.Cubemap
		}
	}
	return nil
}

func (e *environment) AddLight(l light.DirectionalLight) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if slices.Contains(e.lights, l) {
		return
	}
	e.lights = append(e.lights, l)
}

func (e *environment) RemoveLight(l light.DirectionalLight) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := slices.Index(e.lights, l)
	if i < 0 {
		return false
	}
	e.lights = slices.Delete(e.lights, i, i+1)
	return true
}

func (e *environment) Lights() []light.DirectionalLight {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.lights)
}

func (e *environment) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.attributes)
	e.lights = nil
}

// primaryLight returns the first shadow casting light, else the first light, else nil.
func (e *environment) primaryLight() light.DirectionalLight {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.lights {
		if l.CastsShadows() {
			return l
		}
	}
	if len(e.lights) > 0 {
		return e.lights[0]
	}
	return nil
}
