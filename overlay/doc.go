// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package overlay builds text overlay artifacts: positioned,
// selectable text runs aligned to a page's raster.
//
// An Artifact lives in document space (it carries the page's yOffset),
// so it is computed once per page and reused across composite passes
// without re-layout; only the per-pass Container repositions and clips
// it against the current scroll window.
//
// When a Shaper is configured, span text is shaped with
// go-text/typesetting (HarfBuzz) to obtain per-glyph advances for
// selection geometry. Without a Shaper, advances are approximated by
// distributing the span width evenly over its runes.
package overlay
