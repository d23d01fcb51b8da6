package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Declaration file syntax
	SynInfo          Code = 2000
	SynDeclFile      Code = 2001
	SynExpectType    Code = 2202
	SynUnknownMember Code = 2203

	// Semantic
	SemaInfo                  Code = 3000
	SemaError                 Code = 3001
	SemaDuplicateSymbol       Code = 3002
	SemaUnresolvedSymbol      Code = 3005
	SemaTypeMismatch          Code = 3015
	SemaTraitDuplicateMember  Code = 3029
	SemaTraitSupertraitNotFnd Code = 3034
	SemaTraitNotFound         Code = 3035
	SemaTraitSupertraitCycle  Code = 3036
	SemaTraitArgCount         Code = 3037
	SemaTraitMissingConst     Code = 3038
	SemaTraitConstTypeError   Code = 3039
	SemaTraitMissingMethod    Code = 3040
	SemaTraitMethodMismatch   Code = 3041
	SemaTraitMissingType      Code = 3042
	SemaTraitUnknownMember    Code = 3043
	SemaTypeAnnotationsNeeded Code = 3050

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Project / configuration
	ProjInfo      Code = 5000
	ProjBadConfig Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	SynInfo:                   "Syntax information",
	SynDeclFile:               "Malformed declaration file",
	SynExpectType:             "Expect type",
	SynUnknownMember:          "Unknown member kind",
	SemaInfo:                  "Semantic information",
	SemaError:                 "Semantic error",
	SemaDuplicateSymbol:       "Duplicate symbol",
	SemaUnresolvedSymbol:      "Unresolved symbol",
	SemaTypeMismatch:          "Type mismatch",
	SemaTraitDuplicateMember:  "Duplicate member in trait",
	SemaTraitSupertraitNotFnd: "Supertrait not found",
	SemaTraitNotFound:         "Trait not found",
	SemaTraitSupertraitCycle:  "Supertrait cycle",
	SemaTraitArgCount:         "Wrong number of trait type arguments",
	SemaTraitMissingConst:     "Missing required trait constant",
	SemaTraitConstTypeError:   "Trait constant type mismatch",
	SemaTraitMissingMethod:    "Missing required trait method",
	SemaTraitMethodMismatch:   "Trait method signature mismatch",
	SemaTraitMissingType:      "Missing required associated type",
	SemaTraitUnknownMember:    "Member is not part of the trait",
	SemaTypeAnnotationsNeeded: "Type annotations needed",
	IOLoadFileError:           "I/O load file error",
	ProjInfo:                  "Project information",
	ProjBadConfig:             "Invalid project configuration",
	ObsInfo:                   "Observability information",
	ObsTimings:                "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
