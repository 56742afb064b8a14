package engine

import "testing"

func TestBuildRegistries_Succeeds(t *testing.T) {
	registries, err := BuildRegistries()
	if err != nil {
		t.Fatalf("BuildRegistries: %v", err)
	}
	if registries.Commands == nil || registries.Events == nil {
		t.Fatal("expected both registries to be populated")
	}
	if len(registries.Commands.ListDefinitions()) == 0 {
		t.Fatal("expected at least one registered command definition")
	}
	if len(registries.Events.ListDefinitions()) == 0 {
		t.Fatal("expected at least one registered event definition")
	}
}

func TestBuildRegistries_EveryEventHasAFoldHandler(t *testing.T) {
	registries, err := BuildRegistries()
	if err != nil {
		t.Fatalf("BuildRegistries: %v", err)
	}
	handled := make(map[string]struct{})
	for _, domain := range CoreDomains() {
		if domain.FoldHandledTypes == nil {
			continue
		}
		for _, typ := range domain.FoldHandledTypes() {
			handled[string(typ)] = struct{}{}
		}
	}
	for _, def := range registries.Events.ListDefinitions() {
		if _, ok := handled[string(def.Type)]; !ok {
			t.Errorf("event type %s has no reducer", def.Type)
		}
	}
}

func TestBuildRegistries_EveryCommandHasADecider(t *testing.T) {
	registries, err := BuildRegistries()
	if err != nil {
		t.Fatalf("BuildRegistries: %v", err)
	}
	handled := make(map[string]struct{})
	for _, domain := range CoreDomains() {
		if domain.DeciderHandledCommands == nil {
			continue
		}
		for _, typ := range domain.DeciderHandledCommands() {
			handled[string(typ)] = struct{}{}
		}
	}
	for _, def := range registries.Commands.ListDefinitions() {
		if _, ok := handled[string(def.Type)]; !ok {
			t.Errorf("command type %s has no decider", def.Type)
		}
	}
}

func TestCoreDomains_NamesAreNonEmpty(t *testing.T) {
	domains := CoreDomains()
	if len(domains) == 0 {
		t.Fatal("expected at least one core domain")
	}
	for _, d := range domains {
		if d.Name() == "" {
			t.Error("expected a non-empty domain name")
		}
	}
}
