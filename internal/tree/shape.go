package tree

import "fmt"

// Shape is the closed set of course hierarchy layouts. The depth integer a
// package session carries (2-5) maps onto exactly one of these once, at
// manager construction; nothing else branches on the raw integer.
type Shape string

const (
	// ShapeDirectSlides — depth 2: slides hang directly off the offering.
	ShapeDirectSlides Shape = "direct_slides"
	// ShapeSingleSubjectFlat — depth 3: chapters under a single implicit
	// subject, no module layer.
	ShapeSingleSubjectFlat Shape = "single_subject_flat"
	// ShapeSingleSubjectWithModules — depth 4: modules and chapters under a
	// single implicit subject. This shape has no subject-selection state.
	ShapeSingleSubjectWithModules Shape = "single_subject_with_modules"
	// ShapeFullHierarchy — depth 5: subject, module, chapter, slide.
	ShapeFullHierarchy Shape = "full_hierarchy"
)

func ShapeForDepth(depth int) (Shape, error) {
	switch depth {
	case 2:
		return ShapeDirectSlides, nil
	case 3:
		return ShapeSingleSubjectFlat, nil
	case 4:
		return ShapeSingleSubjectWithModules, nil
	case 5:
		return ShapeFullHierarchy, nil
	default:
		return "", fmt.Errorf("course structure depth %d is out of range [2,5]", depth)
	}
}

// HasSubjectSelection reports whether this shape exposes a subject picker in
// the folder view.
func (s Shape) HasSubjectSelection() bool {
	return s == ShapeFullHierarchy
}

func (s Shape) rootNavLevel() NavLevel {
	switch s {
	case ShapeDirectSlides:
		return NavSlides
	case ShapeSingleSubjectFlat:
		return NavChapters
	case ShapeSingleSubjectWithModules:
		return NavModules
	default:
		return NavSubjects
	}
}
