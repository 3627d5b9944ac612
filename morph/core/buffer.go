package core

import "github.com/go-gl/mathgl/mgl32"

// Flat xyz buffers: element i lives at [3i, 3i+3).

func Vec3At(buf []float32, i int) mgl32.Vec3 {
	j := i * 3
	return mgl32.Vec3{buf[j], buf[j+1], buf[j+2]}
}

func SetVec3(buf []float32, i int, v mgl32.Vec3) {
	j := i * 3
	buf[j] = v[0]
	buf[j+1] = v[1]
	buf[j+2] = v[2]
}

// Vec3Count is the number of whole vectors held by buf.
func Vec3Count(buf []float32) int {
	return len(buf) / 3
}

func AllZero(buf []float32) bool {
	for _, v := range buf {
		if v != 0 {
			return false
		}
	}
	return true
}
