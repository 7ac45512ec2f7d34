package model

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// keySpan locates t between two keys and returns their indices and the blend factor.
// Times before the first key clamp to it and times after the last key clamp to the last.
func keySpan(count int, timeAt func(int) float32, t float32) (int, int, float32) {
	if count == 1 || t <= timeAt(0) {
		return 0, 0, 0
	}
	last := count - 1
	if t >= timeAt(last) {
		return last, last, 0
	}
	next := sort.Search(count, func(i int) bool { return timeAt(i) > t })
	prev := next - 1
	span := timeAt(next) - timeAt(prev)
	if span <= 0 {
		return prev, prev, 0
	}
	return prev, next, (t - timeAt(prev)) / span
}

func sampleVector(keys []VectorKeyframe, t float32, step bool) mgl32.Vec3 {
	a, b, f := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if step || a == b {
		return keys[a].Value
	}
	return keys[a].Value.Add(keys[b].Value.Sub(keys[a].Value).Mul(f))
}

func sampleRotation(keys []QuaternionKeyframe, t float32, step bool) mgl32.Quat {
	a, b, f := keySpan(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if step || a == b {
		return keys[a].Value
	}
	q1, q2 := keys[a].Value, keys[b].Value
	// take the short arc
	if q1.Dot(q2) < 0 {
		q2 = q2.Scale(-1)
	}
	return mgl32.QuatSlerp(q1, q2, f).Normalize()
}

// apply overwrites the animated components of the local transforms at time t.
func (c *AnimationClip) apply(locals []Transform, t float32) {
	for _, ch := range c.Channels {
		if ch.NodeIndex < 0 || ch.NodeIndex >= len(locals) {
			continue
		}
		local := &locals[ch.NodeIndex]
		if len(ch.PositionKeys) > 0 {
			local.Translation = sampleVector(ch.PositionKeys, t, ch.PositionStep)
		}
		if len(ch.RotationKeys) > 0 {
			local.Rotation = sampleRotation(ch.RotationKeys, t, ch.RotationStep)
		}
		if len(ch.ScaleKeys) > 0 {
			local.Scale = sampleVector(ch.ScaleKeys, t, ch.ScaleStep)
		}
	}
}
