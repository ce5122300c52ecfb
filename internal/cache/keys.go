package cache

import (
	"fmt"

	"github.com/google/uuid"
)

const allBranches = "all"

// PatientListVersionKey holds the tenant's version counter.
func PatientListVersionKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:patients:version", tenantID)
}

// PatientListKey addresses one cached list variant. The version suffix is
// what makes a counter bump invalidate every variant at once.
func PatientListKey(tenantID uuid.UUID, branchID *uuid.UUID, version string) string {
	scope := allBranches
	if branchID != nil {
		scope = branchID.String()
	}
	return fmt.Sprintf("tenant:%s:patients:list:%s:v:%s", tenantID, scope, version)
}
