// Package action reports a search result to the GitHub Actions runner.
package action

import (
	"encoding/json"
	"fmt"

	"github.com/sethvargo/go-githubactions"

	s3errors "github.com/input-output-hk/catalyst-forge-libs/aws/s3search/errors"
)

// OutputObjects is the step output holding the matching keys.
const OutputObjects = "objects"

// Reporter writes step outputs and annotations.
type Reporter struct {
	action *githubactions.Action
}

// NewReporter creates a Reporter writing through action.
func NewReporter(action *githubactions.Action) *Reporter {
	return &Reporter{action: action}
}

// Succeed sets the objects output to the JSON array of keys.
func (r *Reporter) Succeed(keys []string) error {
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("failed to encode objects: %w", err)
	}

	r.action.SetOutput(OutputObjects, string(data))
	r.action.Infof("found %d matching object(s)", len(keys))
	return nil
}

// Fail sets the objects output to an empty array and emits an error
// annotation carrying err and its code. The caller exits non-zero.
func (r *Reporter) Fail(err error) {
	r.action.SetOutput(OutputObjects, "[]")
	r.action.Errorf("%s (%s)", err.Error(), s3errors.Code(err))
}
