package embedding

import "github.com/saturnino-fabrica-de-software/facecheck/internal/provider"

// SelectLargest returns the index of the face with the largest bounding box
// area. Ties keep the first face encountered. Returns -1 for an empty slice.
func SelectLargest(faces []provider.DetectedFace) int {
	best := -1
	bestArea := 0.0

	for i, f := range faces {
		area := f.BoundingBox.Area()
		if best == -1 || area > bestArea {
			best = i
			bestArea = area
		}
	}

	return best
}
