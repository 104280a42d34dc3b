// Copyright (c) 2026 RepSet. All rights reserved.

package routeclass_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repset/edge/internal/routeclass"
)

/*
TestClassify_PrefixTable exercises the full tag table against representative paths.
*/
func TestClassify_PrefixTable(t *testing.T) {
	tests := []struct {
		name string
		path string
		want routeclass.Classification
	}{
		{
			name: "landing_page_untagged",
			path: "/",
			want: routeclass.Classification{Path: "/"},
		},
		{
			name: "auth_page",
			path: "/auth/signin",
			want: routeclass.Classification{Path: "/auth/signin", IsAuthPage: true},
		},
		{
			name: "dashboard_protected",
			path: "/dashboard",
			want: routeclass.Classification{Path: "/dashboard", IsProtected: true},
		},
		{
			name: "trainer_protected_and_trainer_only",
			path: "/trainer",
			want: routeclass.Classification{Path: "/trainer", IsProtected: true, IsTrainerOnly: true},
		},
		{
			name: "trainer_subpath_keeps_both_tags",
			path: "/trainer/clients",
			want: routeclass.Classification{Path: "/trainer/clients", IsProtected: true, IsTrainerOnly: true},
		},
		{
			name: "api_route",
			path: "/api/health",
			want: routeclass.Classification{Path: "/api/health", IsAPI: true},
		},
		{
			name: "onboarding_protected_and_tagged",
			path: "/onboarding",
			want: routeclass.Classification{Path: "/onboarding", IsProtected: true, IsOnboarding: true},
		},
		{
			name: "workout_creation_protected",
			path: "/workout/create",
			want: routeclass.Classification{Path: "/workout/create", IsProtected: true},
		},
		{
			name: "settings_protected",
			path: "/settings/devices/connect",
			want: routeclass.Classification{Path: "/settings/devices/connect", IsProtected: true},
		},
		{
			name: "prefix_match_is_case_sensitive",
			path: "/Dashboard",
			want: routeclass.Classification{Path: "/Dashboard"},
		},
		{
			name: "empty_path_is_defined",
			path: "",
			want: routeclass.Classification{Path: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, routeclass.Classify(tt.path))
		})
	}
}

/*
TestClassify_Idempotent verifies repeated classification is bit-identical.
*/
func TestClassify_Idempotent(t *testing.T) {
	paths := []string{"/", "/auth", "/trainer/clients", "/api/v1/workouts", "/workout/create"}

	for _, path := range paths {
		first := routeclass.Classify(path)
		second := routeclass.Classify(path)
		assert.Equal(t, first, second, "classification of %q must be stable", path)
	}
}

/*
TestIsStaticAsset covers the bypass list for framework and image assets.
*/
func TestIsStaticAsset(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/_next/static/chunks/main.js", true},
		{"/_next/image?url=%2Fhero.png", true},
		{"/favicon.ico", true},
		{"/img/logo.svg", true},
		{"/uploads/progress.webp", true},
		{"/dashboard", false},
		{"/workout/create", false},
		{"/api/health", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, routeclass.IsStaticAsset(tt.path), "path %q", tt.path)
	}
}
