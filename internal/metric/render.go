package metric

import (
	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// DefaultCurrencySymbol is used when a currency spec names no symbol.
const DefaultCurrencySymbol = "$"

// Render formats v according to spec. A missing value renders as N/A; an
// unusable spec is a *models.ConfigurationError even then.
func Render(spec models.FormatSpec, v float64) (string, error) {
	if err := checkSpec(spec); err != nil {
		return "", err
	}
	if format.Missing(v) {
		return format.NA, nil
	}

	v *= spec.Factor()
	switch spec.Kind {
	case models.FormatCurrency:
		symbol := spec.Symbol
		if symbol == "" {
			symbol = DefaultCurrencySymbol
		}
		return format.Number(v, spec.Decimals, spec.Prefix+symbol, spec.Suffix), nil
	case models.FormatPercentage:
		return spec.Prefix + format.Percentage(v, spec.Decimals) + spec.Suffix, nil
	case models.FormatSignedPercentage:
		return spec.Prefix + format.SignedPercentage(v, spec.Decimals) + spec.Suffix, nil
	case models.FormatBytes:
		s, err := format.BytesIn(v, spec.Unit, spec.Decimals)
		if err != nil {
			return "", err
		}
		return spec.Prefix + s + spec.Suffix, nil
	case models.FormatDuration:
		return spec.Prefix + format.Duration(v, spec.Decimals) + spec.Suffix, nil
	default:
		return format.Number(v, spec.Decimals, spec.Prefix, spec.Suffix), nil
	}
}

func checkSpec(spec models.FormatSpec) error {
	if !spec.Kind.Valid() {
		return models.NewConfigurationError("formatter", "unknown formatter %s", spec.Kind)
	}
	if spec.Decimals < 0 {
		return models.NewConfigurationError("formatter", "negative decimals %d", spec.Decimals)
	}
	if spec.Kind == models.FormatBytes {
		if _, err := format.ParseByteUnit(spec.Unit); err != nil {
			return err
		}
	}
	return nil
}
