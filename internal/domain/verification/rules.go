package verification

import "fmt"

// DocumentType identifies a kind of identity or ownership document.
type DocumentType string

const (
	DocDrivingLicense   DocumentType = "driving_license"
	DocIdentityCard     DocumentType = "identity_card"
	DocVehicleOwnership DocumentType = "vehicle_ownership"
	DocInsurance        DocumentType = "insurance"
)

// IsValid returns true if the document type is recognized.
func (d DocumentType) IsValid() bool {
	switch d {
	case DocDrivingLicense, DocIdentityCard, DocVehicleOwnership, DocInsurance:
		return true
	}
	return false
}

// ParseDocumentType converts a string to a DocumentType, returning an error if invalid.
func ParseDocumentType(s string) (DocumentType, error) {
	d := DocumentType(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid document type: %s", s)
	}
	return d, nil
}

// ProfileFlag is a verification flag on a user profile.
type ProfileFlag string

const (
	FlagVerifiedRenter ProfileFlag = "verified_renter"
	FlagVerifiedHost   ProfileFlag = "verified_host"
)

// Rule declares which profile flag is raised once all of its required
// document types have an approved document on file.
type Rule struct {
	Flag         ProfileFlag
	RequiredDocs []DocumentType
}

// Rules is the single declarative table driving flag assignment. Evaluated
// once per document-approval event; there is no per-call-site branching on
// document types anywhere else.
var Rules = []Rule{
	{Flag: FlagVerifiedRenter, RequiredDocs: []DocumentType{DocDrivingLicense, DocIdentityCard}},
	{Flag: FlagVerifiedHost, RequiredDocs: []DocumentType{DocVehicleOwnership, DocInsurance}},
}

// Evaluate returns the flags to raise given the set of approved document
// types for a user. Flags whose required set is not fully approved are not
// returned.
func Evaluate(approved []DocumentType) []ProfileFlag {
	approvedSet := make(map[DocumentType]bool, len(approved))
	for _, d := range approved {
		approvedSet[d] = true
	}

	var flags []ProfileFlag
	for _, rule := range Rules {
		all := true
		for _, required := range rule.RequiredDocs {
			if !approvedSet[required] {
				all = false
				break
			}
		}
		if all {
			flags = append(flags, rule.Flag)
		}
	}
	return flags
}

// RelevantRules returns the rules whose required set contains the given
// document type, so consumers can skip evaluation for unrelated documents.
func RelevantRules(docType DocumentType) []Rule {
	var out []Rule
	for _, rule := range Rules {
		for _, required := range rule.RequiredDocs {
			if required == docType {
				out = append(out, rule)
				break
			}
		}
	}
	return out
}
