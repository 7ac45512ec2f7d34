package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-logo/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	doc *gltf.Document
}

// gltfAnimationExtractor defines the interface for extracting node animations from a glTF document.
// Translation, rotation and scale channels targeting the same node are merged into one
// AnimationChannel. Morph target weights are skipped.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//
	// Returns:
	//   - *model.AnimationClip: the extracted animation clip
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int) (*model.AnimationClip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a decoded document.
//
// Parameters:
//   - doc: the decoded glTF document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(doc *gltf.Document) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{doc: doc}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int) (*model.AnimationClip, error) {
	if animIndex < 0 || animIndex >= len(e.doc.Animations) {
		return nil, fmt.Errorf("animation index %d out of range", animIndex)
	}
	anim := e.doc.Animations[animIndex]

	// channelMap groups channels by node so translation/rotation/scale merge into one AnimationChannel.
	channelMap := make(map[int]*model.AnimationChannel)
	var order []int
	var maxTime float32

	for i, ch := range anim.Channels {
		if ch.Target.Node == nil {
			continue
		}
		nodeIndex := *ch.Target.Node
		if nodeIndex < 0 || nodeIndex >= len(e.doc.Nodes) {
			return nil, fmt.Errorf("animation %q channel %d: invalid node %d", anim.Name, i, nodeIndex)
		}
		if ch.Sampler < 0 || ch.Sampler >= len(anim.Samplers) {
			return nil, fmt.Errorf("animation %q channel %d: invalid sampler index %d", anim.Name, i, ch.Sampler)
		}
		sampler := anim.Samplers[ch.Sampler]

		times, err := e.readTimes(sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("animation %q channel %d: failed to read timestamps: %w", anim.Name, i, err)
		}
		if len(times) == 0 {
			continue
		}
		maxTime = max(maxTime, times[len(times)-1])

		animCh, exists := channelMap[nodeIndex]
		if !exists {
			animCh = &model.AnimationChannel{NodeIndex: nodeIndex}
			channelMap[nodeIndex] = animCh
			order = append(order, nodeIndex)
		}
		step := sampler.Interpolation == gltf.InterpolationStep
		cubic := sampler.Interpolation == gltf.InterpolationCubicSpline

		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			values, err := e.readVectors(sampler.Output, len(times), cubic)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: %w", anim.Name, i, err)
			}
			keys := make([]model.VectorKeyframe, len(times))
			for j := range keys {
				keys[j] = model.VectorKeyframe{Time: times[j], Value: values[j]}
			}
			if ch.Target.Path == gltf.TRSTranslation {
				animCh.PositionKeys, animCh.PositionStep = keys, step
			} else {
				animCh.ScaleKeys, animCh.ScaleStep = keys, step
			}

		case gltf.TRSRotation:
			values, err := e.readRotations(sampler.Output, len(times), cubic)
			if err != nil {
				return nil, fmt.Errorf("animation %q channel %d: %w", anim.Name, i, err)
			}
			keys := make([]model.QuaternionKeyframe, len(times))
			for j := range keys {
				keys[j] = model.QuaternionKeyframe{Time: times[j], Value: values[j]}
			}
			animCh.RotationKeys, animCh.RotationStep = keys, step
		}
	}

	clip := &model.AnimationClip{Name: anim.Name, Duration: maxTime}
	for _, n := range order {
		clip.Channels = append(clip.Channels, *channelMap[n])
	}
	return clip, nil
}

func (e *gltfAnimationExtractorImpl) accessor(index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(e.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	return e.doc.Accessors[index], nil
}

func (e *gltfAnimationExtractorImpl) readTimes(index int) ([]float32, error) {
	acr, err := e.accessor(index)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(e.doc, acr, nil)
	if err != nil {
		return nil, err
	}
	times, ok := data.([]float32)
	if !ok {
		return nil, fmt.Errorf("timestamps must be float scalars, got %T", data)
	}
	return times, nil
}

// readVectors reads count VEC3 outputs. Cubic spline outputs store an in-tangent,
// a value and an out-tangent per key; only the value is kept.
func (e *gltfAnimationExtractorImpl) readVectors(index, count int, cubic bool) ([]mgl32.Vec3, error) {
	acr, err := e.accessor(index)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(e.doc, acr, nil)
	if err != nil {
		return nil, err
	}
	raw, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("vector keys must be float VEC3, got %T", data)
	}
	stride, offset := 1, 0
	if cubic {
		stride, offset = 3, 1
	}
	if len(raw) < count*stride {
		return nil, fmt.Errorf("got %d vector keys, want %d", len(raw), count*stride)
	}
	out := make([]mgl32.Vec3, count)
	for i := range out {
		out[i] = raw[i*stride+offset]
	}
	return out, nil
}

// readRotations reads count quaternion outputs, accepting float and normalized integer storage.
func (e *gltfAnimationExtractorImpl) readRotations(index, count int, cubic bool) ([]mgl32.Quat, error) {
	acr, err := e.accessor(index)
	if err != nil {
		return nil, err
	}
	data, err := modeler.ReadAccessor(e.doc, acr, nil)
	if err != nil {
		return nil, err
	}
	var raw [][4]float32
	switch v := data.(type) {
	case [][4]float32:
		raw = v
	case [][4]int8:
		raw = make([][4]float32, len(v))
		for i, q := range v {
			for c := range 4 {
				raw[i][c] = max(float32(q[c])/127, -1)
			}
		}
	case [][4]int16:
		raw = make([][4]float32, len(v))
		for i, q := range v {
			for c := range 4 {
				raw[i][c] = max(float32(q[c])/32767, -1)
			}
		}
	default:
		return nil, fmt.Errorf("rotation keys must be VEC4, got %T", data)
	}
	stride, offset := 1, 0
	if cubic {
		stride, offset = 3, 1
	}
	if len(raw) < count*stride {
		return nil, fmt.Errorf("got %d rotation keys, want %d", len(raw), count*stride)
	}
	out := make([]mgl32.Quat, count)
	for i := range out {
		r := raw[i*stride+offset]
		out[i] = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}.Normalize()
	}
	return out, nil
}
