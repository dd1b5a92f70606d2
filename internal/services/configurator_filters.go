package services

import (
	"fmt"
	"sort"
	"strings"

	domain "github.com/sanduta-art/api/internal/domain"
)

// PrintMethodFilterResult carries the narrowed print method set together with
// any soft validation issues for the caller to act on.
type PrintMethodFilterResult struct {
	PrintMethods        []PrintMethod
	SelectedPrintMethod *PrintMethod
	Issues              []string
}

// FinishingFilterResult carries the narrowed finishing set and the matched
// explicit selections.
type FinishingFilterResult struct {
	Finishing         []FinishingOption
	SelectedFinishing []FinishingOption
	Issues            []string
}

// FilterPrintMethods returns the print methods compatible with the selected
// material that fit the machine for the selected dimensions.
//
// A method restricted to certain materials is excluded while no material is
// selected: the storefront must not offer a method it cannot commit to. The
// machine-fit check is deferred while no dimension is selected. An explicit
// selection that falls outside the narrowed set is reported as an issue, never
// as an error, so the caller can show both the valid candidates and the
// conflict at the same time.
func FilterPrintMethods(product ConfiguratorProduct, selections Selections) (PrintMethodFilterResult, error) {
	dimension := domain.NormalizeDimension(selections.Dimension, product.Dimensions.DefaultUnit)

	var widthMm, heightMm *float64
	if dimension != nil {
		var err error
		widthMm, err = domain.ConvertToMillimeters(dimension.Width, dimension.Unit)
		if err != nil {
			return PrintMethodFilterResult{}, fmt.Errorf("print method filter: %w", err)
		}
		heightMm, err = domain.ConvertToMillimeters(dimension.Height, dimension.Unit)
		if err != nil {
			return PrintMethodFilterResult{}, fmt.Errorf("print method filter: %w", err)
		}
	}

	result := PrintMethodFilterResult{PrintMethods: make([]PrintMethod, 0, len(product.PrintMethods))}
	for _, method := range product.PrintMethods {
		if !printMethodSupportsMaterial(method, selections.MaterialID) {
			continue
		}
		if dimension != nil && !fitsMachine(method, widthMm, heightMm) {
			continue
		}
		result.PrintMethods = append(result.PrintMethods, method)
	}

	if selections.PrintMethodID != nil {
		selectedID := strings.TrimSpace(*selections.PrintMethodID)
		if selectedID != "" {
			for i := range result.PrintMethods {
				if result.PrintMethods[i].ID == selectedID {
					selected := result.PrintMethods[i]
					result.SelectedPrintMethod = &selected
					break
				}
			}
			if result.SelectedPrintMethod == nil {
				result.Issues = append(result.Issues, fmt.Sprintf("print method %q is not compatible with the current material or dimensions", selectedID))
			}
		}
	}

	return result, nil
}

// FilterFinishing returns the finishing options compatible with the selected
// material and print method.
//
// Unlike the print method filter, an absent selection on either axis passes: a
// finishing option stays on offer until a conflicting material or print method
// is explicitly chosen. The two policies are intentionally different and must
// not be unified. Stale ids in selections.FinishingIDs produce exactly one
// aggregate issue.
func FilterFinishing(product ConfiguratorProduct, selections Selections) FinishingFilterResult {
	result := FinishingFilterResult{Finishing: make([]FinishingOption, 0, len(product.Finishing))}
	for _, option := range product.Finishing {
		if !restrictionPermits(option.MaterialIDs, selections.MaterialID) {
			continue
		}
		if !restrictionPermits(option.PrintMethodIDs, selections.PrintMethodID) {
			continue
		}
		result.Finishing = append(result.Finishing, option)
	}

	if len(selections.FinishingIDs) == 0 {
		return result
	}

	compatible := make(map[string]FinishingOption, len(result.Finishing))
	for _, option := range result.Finishing {
		compatible[option.ID] = option
	}

	var missing []string
	seen := make(map[string]bool, len(selections.FinishingIDs))
	for _, id := range selections.FinishingIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if option, ok := compatible[id]; ok {
			result.SelectedFinishing = append(result.SelectedFinishing, option)
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		result.Issues = append(result.Issues, fmt.Sprintf("finishing options not compatible with the current selections: %s", strings.Join(missing, ", ")))
	}

	return result
}

// printMethodSupportsMaterial applies the conservative material policy: a
// restricted method needs a committed, listed material.
func printMethodSupportsMaterial(method PrintMethod, materialID *string) bool {
	if method.MaterialIDs == nil {
		return true
	}
	if materialID == nil || strings.TrimSpace(*materialID) == "" {
		return false
	}
	return containsID(method.MaterialIDs, *materialID)
}

// fitsMachine checks the declared size limits against the selection in
// millimetres. An absent limit or an absent selection side imposes nothing.
func fitsMachine(method PrintMethod, widthMm, heightMm *float64) bool {
	if method.MaxWidthMm != nil && widthMm != nil && *widthMm > *method.MaxWidthMm {
		return false
	}
	if method.MaxHeightMm != nil && heightMm != nil && *heightMm > *method.MaxHeightMm {
		return false
	}
	return true
}

// restrictionPermits applies the permissive policy used by finishing options:
// no restriction, no selection, or a listed selection all pass.
func restrictionPermits(restriction []string, selected *string) bool {
	if restriction == nil {
		return true
	}
	if selected == nil || strings.TrimSpace(*selected) == "" {
		return true
	}
	return containsID(restriction, *selected)
}

func containsID(ids []string, id string) bool {
	id = strings.TrimSpace(id)
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
