package synth

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/kindgen/internal/model"
	"github.com/specialistvlad/kindgen/internal/typesys"
)

// validateIDs enforces unique variant ids across every included variant,
// indexable or not. Two variants sharing an id is an authoring error even
// when one of them never reaches the identity index.
func validateIDs(family string, variants []*model.VariantDefinition) error {
	seen := make(map[int64]string, len(variants))
	for _, v := range variants {
		if !v.Include {
			continue
		}
		if first, ok := seen[v.ID]; ok {
			return &ConflictError{
				Family: family,
				Kind:   "variant id",
				Key:    strconv.FormatInt(v.ID, 10),
				First:  first,
				Second: v.Name,
			}
		}
		seen[v.ID] = v.Name
	}
	return nil
}

// buildPrimary materializes the identity index: one entry per indexable
// variant, in declaration order.
func buildPrimary(family string, variants []*model.VariantDefinition) (*PrimaryIndex, error) {
	if err := validateIDs(family, variants); err != nil {
		return nil, err
	}
	idx := &PrimaryIndex{}
	for _, v := range variants {
		if !v.Indexable() {
			continue
		}
		idx.Entries = append(idx.Entries, PrimaryEntry{ID: v.ID, Variant: v})
	}
	return idx, nil
}

// buildSecondary materializes one declared lookup key over the indexable
// variants. Computed keys produce an index shell with no entries; those are
// filled at init time by interrogating each indexed instance.
//
// A variant with no declared value for the key is simply absent from the
// index, except for the Name property, which defaults to the variant's
// registry name.
func buildSecondary(f *model.FamilyDefinition, spec *model.LookupKeySpec, variants []*model.VariantDefinition) (*SecondaryIndex, []Warning, error) {
	idx := &SecondaryIndex{
		Spec:  spec,
		Folds: spec.Folds(f.NameRule),
	}
	if spec.Computed {
		return idx, nil, nil
	}

	var warnings []Warning
	claimed := make(map[string]string)
	for _, v := range variants {
		raw, declared := v.KeyValues[spec.Property]
		if !v.Indexable() {
			if declared && v.Include {
				warnings = append(warnings, Warning{
					Family: f.Name,
					Member: v.Name,
					Reason: fmt.Sprintf("declared %s key is unreachable: the variant has no zero-argument construction path and is absent from the indices", spec.Property),
				})
			}
			continue
		}
		if !declared {
			if spec.Property != "Name" || spec.Type.Kind != typesys.KindString {
				continue
			}
			raw = cty.StringVal(v.Name)
		}
		if idx.Folds {
			raw = cty.StringVal(strings.ToLower(raw.AsString()))
		}
		key := keyString(raw)
		if !spec.Multiple {
			if first, dup := claimed[key]; dup {
				return nil, nil, &ConflictError{
					Family: f.Name,
					Kind:   fmt.Sprintf("%s key", spec.Property),
					Key:    key,
					First:  first,
					Second: v.Name,
				}
			}
			claimed[key] = v.Name
		}
		idx.Entries = append(idx.Entries, SecondaryEntry{Key: raw, Variant: v})
	}
	return idx, warnings, nil
}
