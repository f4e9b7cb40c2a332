// Package intake stores enrolment cohorts, identified by a unique intake code.
package intake
