package repository

import (
	"strings"
	"testing"
)

func TestOwnerInsertIsScopedToNewOrganization(t *testing.T) {
	query := strings.ToLower(insertOwnerQuery)

	for _, fragment := range []string{"insert into users", "organization_id", "'owner'"} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected owner insert fragment %q to be present", fragment)
		}
	}
}

func TestRevokeOnlyTouchesLiveTokens(t *testing.T) {
	query := strings.ToLower(revokeRefreshTokenQuery)

	if !strings.Contains(query, "revoked_at is null") {
		t.Fatal("revoking must not overwrite an earlier revocation time")
	}
	if !strings.Contains(query, "where token_hash = $1") {
		t.Fatal("revoke must target a single token")
	}
}

func TestRefreshLookupReturnsRevocation(t *testing.T) {
	if !strings.Contains(strings.ToLower(getRefreshTokenQuery), "revoked_at") {
		t.Fatal("refresh lookup must expose revocation so reuse can be detected")
	}
}
