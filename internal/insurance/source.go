package insurance

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type Source interface {
	List(ctx context.Context) (Catalog, error)
}

// Checked validates every catalog it hands out. Overlapping bands are fatal in strict mode;
// otherwise they are logged and resolved first-in-order.
type Checked struct {
	Source Source
	Strict bool
	Log    *logrus.Entry
}

func (c Checked) List(ctx context.Context) (Catalog, error) {
	cat, err := c.Source.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}

	overlaps := cat.Overlaps()
	if len(overlaps) == 0 {
		return cat, nil
	}
	if c.Strict {
		return nil, ValidationError{
			Code:    "PLAN_BANDS_OVERLAP",
			Message: fmt.Sprintf("insurance plan bands overlap: %v", overlaps),
		}
	}
	if c.Log != nil {
		for _, o := range overlaps {
			c.Log.WithFields(logrus.Fields{"first": o.First, "second": o.Second}).
				Warn("insurance plan bands overlap; first plan in catalog order wins")
		}
	}
	return cat, nil
}
