package userctx

import "testing"

func TestAggregate_CompanyOnly(t *testing.T) {
	uc := Aggregate([]CompanyAccess{
		{CompanyID: "c1", Role: "admin"},
		{CompanyID: "c2", Role: "member"},
	}, nil)

	if uc.Type != TypeCompany {
		t.Fatalf("expected company, got %q", uc.Type)
	}
	if uc.Active == nil || uc.Active.Kind != ScopeCompany || uc.Active.ID != "c1" {
		t.Fatalf("expected first company active, got %+v", uc.Active)
	}
}

func TestAggregate_ClientOnly(t *testing.T) {
	uc := Aggregate(nil, []ClientAccess{{ClientID: "k1", ClientName: "n", CompanyID: "c9", Role: "member"}})

	if uc.Type != TypeClient {
		t.Fatalf("expected client, got %q", uc.Type)
	}
	if uc.Active == nil || uc.Active.Kind != ScopeClient || uc.Active.ID != "k1" {
		t.Fatalf("expected first client active, got %+v", uc.Active)
	}
}

func TestAggregate_NoAccess(t *testing.T) {
	uc := Aggregate(nil, nil)
	if uc.Type != TypeNoAccess {
		t.Fatalf("expected no_access, got %q", uc.Type)
	}
	if uc.Active != nil {
		t.Fatalf("expected no active context, got %+v", uc.Active)
	}
}

// A principal with admin on c1 and member on client k1 under a different
// company classifies as multi with no default selection.
func TestAggregate_MultiForcesExplicitChoice(t *testing.T) {
	uc := Aggregate(
		[]CompanyAccess{{CompanyID: "c1", Role: "admin"}},
		[]ClientAccess{{ClientID: "k1", ClientName: "Acme Retail", CompanyID: "c2", Role: "member"}},
	)

	if uc.Type != TypeMulti {
		t.Fatalf("expected multi, got %q", uc.Type)
	}
	if uc.Active != nil {
		t.Fatalf("expected no default active context for multi, got %+v", uc.Active)
	}
	if len(uc.Companies) != 1 || uc.Companies[0].CompanyID != "c1" {
		t.Fatalf("unexpected companies: %+v", uc.Companies)
	}
	if len(uc.Clients) != 1 || uc.Clients[0].ClientID != "k1" {
		t.Fatalf("unexpected clients: %+v", uc.Clients)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	uc := Aggregate([]CompanyAccess{{CompanyID: "c1", Role: "owner"}}, nil)
	cp := uc.Clone()

	cp.Companies[0].CompanyID = "mutated"
	cp.Active.ID = "mutated"

	if uc.Companies[0].CompanyID != "c1" {
		t.Fatalf("clone shares companies slice with original")
	}
	if uc.Active.ID != "c1" {
		t.Fatalf("clone shares active pointer with original")
	}
}
