package config

import (
	"fmt"

	"github.com/lnquy/cron"
	"github.com/pkg/errors"
)

// DescribeSchedule renders the cron expression of the external scheduler in
// English, together with the resulting posting rate.
func DescribeSchedule(expr string, chance int) (string, error) {
	descriptor, err := cron.NewDescriptor(cron.Use24HourTimeFormat(true))
	if err != nil {
		return "", errors.Wrap(err, "creating cron descriptor")
	}

	desc, err := descriptor.ToDescription(expr, cron.Locale_en)
	if err != nil {
		return "", errors.Wrapf(err, "invalid schedule %q", expr)
	}

	if chance <= 1 {
		return fmt.Sprintf("%s, posting every run", desc), nil
	}
	return fmt.Sprintf("%s, posting about 1 in %d runs", desc, chance), nil
}
