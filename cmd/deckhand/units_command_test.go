package main

import "testing"

func TestUnitsCommandListsWorkspace(t *testing.T) {
	env := setupCLITestEnv(t)
	addUnit(t, env.workspaceDir, "chorus")
	addUnit(t, env.workspaceDir, "reverb")

	out, _, err := runCLI(t, []string{"units"}, env.configPath)
	if err != nil {
		t.Fatalf("units command: %v", err)
	}
	requireContains(t, out, "chorus")
	requireContains(t, out, "reverb")
}

func TestUnitsCommandEmptyWorkspace(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"units"}, env.configPath)
	if err != nil {
		t.Fatalf("units command: %v", err)
	}
	requireContains(t, out, "No plugin units found")
}
