package vmtlib

import "github.com/pyvmt/pyvmt/pkg/model"

// The annotations used in VMT-LIB.
const (
	// AnnotNext marks the next-state partner of a state variable.
	AnnotNext = "next"
	// AnnotInit marks an init constraint.
	AnnotInit = "init"
	// AnnotTrans marks a trans constraint.
	AnnotTrans = "trans"
	// AnnotInvarProperty marks an invariant property.
	AnnotInvarProperty = "invar-property"
	// AnnotLiveProperty marks a liveness property.
	AnnotLiveProperty = "live-property"
	// AnnotLtlProperty marks an LTL property.
	AnnotLtlProperty = "ltl-property"
	// AnnotLtlfProperty marks a finite-trace LTL property.
	AnnotLtlfProperty = "ltlf-property"
)

// annotToPropKind maps property annotations to model property kinds.
var annotToPropKind = map[string]model.PropKind{
	AnnotInvarProperty: model.Invar,
	AnnotLiveProperty:  model.Live,
	AnnotLtlProperty:   model.Ltl,
	AnnotLtlfProperty:  model.Ltlf,
}

// propKindToAnnot maps model property kinds to their annotations.
var propKindToAnnot = map[model.PropKind]string{
	model.Invar: AnnotInvarProperty,
	model.Live:  AnnotLiveProperty,
	model.Ltl:   AnnotLtlProperty,
	model.Ltlf:  AnnotLtlfProperty,
}
