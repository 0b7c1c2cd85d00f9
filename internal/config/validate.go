package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
)

var (
	validate            *validator.Validate
	regxResourceName    = regexp.MustCompile(`^[a-z0-9-]+$`)
	errNonPositiveValue = errors.New("must be greater than zero")
	errNotWholeSeconds  = errors.New("must be a whole number of seconds, at least 1s")
)

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("resource_name", resourceName); err != nil {
		panic(fmt.Errorf("register validator for resource_name error: %w", err))
	}
}

// resourceName accepts lower case alphanumeric and dash characters only.
// Empty strings pass; pair with "required" to reject them.
func resourceName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return true
	}
	return regxResourceName.MatchString(s)
}

// Validate checks that the configuration is usable. Every problem found is
// reported, not only the first one.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				result = multierror.Append(result,
					fmt.Errorf("%s: failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			result = multierror.Append(result, err)
		}
	}

	durations := []struct {
		key string
		d   Duration
	}{
		{"cloud.poll_interval", c.Cloud.PollInterval},
		{"cloud.refresh_timeout", c.Cloud.RefreshTimeout},
		{"export.batch_interval", c.Export.BatchInterval},
		{"devices.motion_min", c.Devices.MotionMin},
		{"devices.motion_max", c.Devices.MotionMax},
		{"demo.duration", c.Demo.Duration},
	}
	for _, entry := range durations {
		if entry.d.Duration <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s: %w", entry.key, errNonPositiveValue))
		}
	}

	// The motion simulator waits whole seconds
	motion := []struct {
		key string
		d   time.Duration
	}{
		{"devices.motion_min", c.Devices.MotionMin.Duration},
		{"devices.motion_max", c.Devices.MotionMax.Duration},
	}
	for _, entry := range motion {
		if entry.d > 0 && (entry.d < time.Second || entry.d%time.Second != 0) {
			result = multierror.Append(result,
				fmt.Errorf("%s (%s): %w", entry.key, entry.d, errNotWholeSeconds))
		}
	}

	if c.Devices.MotionMin.Duration > c.Devices.MotionMax.Duration {
		result = multierror.Append(result,
			fmt.Errorf("devices.motion_min (%s) exceeds devices.motion_max (%s)",
				c.Devices.MotionMin.Duration, c.Devices.MotionMax.Duration))
	}

	seen := make(map[string]bool, len(c.Cloud.Resources))
	for _, r := range c.Cloud.Resources {
		if seen[r.Name] {
			result = multierror.Append(result, fmt.Errorf("cloud.resources: duplicate name %q", r.Name))
		}
		seen[r.Name] = true
	}

	return result.ErrorOrNil()
}
