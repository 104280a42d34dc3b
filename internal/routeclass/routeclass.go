// Copyright (c) 2026 RepSet. All rights reserved.

/*
Package routeclass derives routing facts from request paths.

Classification is a pure function of the path: a fixed, case-sensitive
prefix table maps paths to tags (auth-page, protected, trainer-only, api,
onboarding). There is no hidden state, so identical paths always classify
identically and the package is safe to call unsynchronized from any number
of concurrent requests.

Tags are not mutually exclusive: /trainer is both protected and
trainer-only.
*/
package routeclass

import "strings"

// Classification holds the derived, read-only facts about a request path.
type Classification struct {
	// Path is the original request path the tags were derived from.
	Path string

	IsAuthPage    bool
	IsProtected   bool
	IsTrainerOnly bool
	IsAPI         bool
	IsOnboarding  bool
}

// # Prefix Tables

// protectedPrefixes are the page trees that require an authenticated session.
var protectedPrefixes = []string{
	"/dashboard",
	"/profile",
	"/onboarding",
	"/trainer",
	"/settings",
	"/workout",
}

// trainerOnlyPrefixes additionally require a trainer account.
var trainerOnlyPrefixes = []string{
	"/trainer",
}

// staticAssetPrefixes and staticAssetSuffixes identify framework assets the
// gate never evaluates (the upstream app serves them without authorization).
var staticAssetPrefixes = []string{
	"/_next/static",
	"/_next/image",
	"/favicon.ico",
}

var staticAssetSuffixes = []string{
	".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp",
}

// # Classification

// Classify maps a request path to its route tags. Total: every path,
// including the empty string, yields a defined Classification.
func Classify(path string) Classification {
	classification := Classification{
		Path:         path,
		IsAuthPage:   strings.HasPrefix(path, "/auth"),
		IsAPI:        strings.HasPrefix(path, "/api"),
		IsOnboarding: strings.HasPrefix(path, "/onboarding"),
	}

	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			classification.IsProtected = true
			break
		}
	}

	for _, prefix := range trainerOnlyPrefixes {
		if strings.HasPrefix(path, prefix) {
			classification.IsTrainerOnly = true
			break
		}
	}

	return classification
}

// IsStaticAsset reports whether the path is a framework or image asset that
// bypasses gate evaluation entirely.
func IsStaticAsset(path string) bool {
	for _, prefix := range staticAssetPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	for _, suffix := range staticAssetSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
