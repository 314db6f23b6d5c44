package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// HittableList is an ordered collection of shapes tested exhaustively per ray.
// It is built once before rendering and must not be modified while a render
// is in progress; concurrent Hit calls are then safe.
type HittableList struct {
	Objects []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(objects ...Shape) *HittableList {
	return &HittableList{Objects: append([]Shape(nil), objects...)}
}

// Add appends shapes to the list
func (l *HittableList) Add(objects ...Shape) {
	l.Objects = append(l.Objects, objects...)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.Objects)
}

// Hit returns the closest intersection across all shapes.
// Each accepted hit narrows tMax, so a later shape only wins when it is
// strictly closer; exact ties go to the earliest shape in the list.
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, shape := range l.Objects {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
