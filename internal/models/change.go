package models

import "github.com/sirupsen/logrus"

// NameChange is one proposed realName update derived from an email address.
type NameChange struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	OldRealName string `json:"old_real_name"`
	NewRealName string `json:"new_real_name"`
}

// LogFields returns structured logging fields for this change.
func (c *NameChange) LogFields() logrus.Fields {
	return logrus.Fields{
		"username": c.Username,
		"email":    c.Email,
		"old_name": c.OldRealName,
		"new_name": c.NewRealName,
	}
}

// InferenceResult reports a name inference run.
type InferenceResult struct {
	Proposed int          `json:"proposed"`
	Applied  int          `json:"applied"`
	Skipped  int          `json:"skipped"`
	Changes  []NameChange `json:"changes,omitempty"`
}

// LogFields returns structured logging fields for this result.
func (r *InferenceResult) LogFields() logrus.Fields {
	return logrus.Fields{
		"proposed": r.Proposed,
		"applied":  r.Applied,
		"skipped":  r.Skipped,
	}
}
