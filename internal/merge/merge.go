// Package merge applies rendered content to output targets. It implements
// the output-mode state machine (auto, prepend, append, update, overwrite,
// none), heading-based section replacement for structured documents such as
// changelogs, and crash-safe file mutation: every write builds the full new
// document in memory, lands in a temporary file in the target's directory,
// and is renamed over the target, with a backup copy taken first.
package merge

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Mode is an output-merge strategy.
type Mode string

const (
	// ModeAuto picks ModeUpdate for structured change logs, ModeAppend otherwise.
	ModeAuto Mode = "auto"
	// ModePrepend places new content before the existing document.
	ModePrepend Mode = "prepend"
	// ModeAppend places new content after the existing document.
	ModeAppend Mode = "append"
	// ModeUpdate replaces the section matching the version label in place.
	ModeUpdate Mode = "update"
	// ModeOverwrite replaces the whole document.
	ModeOverwrite Mode = "overwrite"
	// ModeNone writes nothing to disk and emits content to the output stream.
	ModeNone Mode = "none"
)

// ParseMode validates a mode name from configuration or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeAuto:
		return ModeAuto, nil
	case ModePrepend:
		return ModePrepend, nil
	case ModeAppend:
		return ModeAppend, nil
	case ModeUpdate:
		return ModeUpdate, nil
	case ModeOverwrite:
		return ModeOverwrite, nil
	case ModeNone:
		return ModeNone, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (expected auto|prepend|append|update|overwrite|none)", s)
	}
}

// Target describes where and how rendered content lands. Targets are built
// per invocation from resolved configuration plus per-call overrides and are
// never persisted.
type Target struct {
	Path string
	Mode Mode
	// VersionLabel selects the section replaced by ModeUpdate/ModeAuto.
	// Empty means "the first section".
	VersionLabel string
	// DryRun previews the final text without backups or mutation.
	DryRun bool
	// Out receives content for ModeNone and dry-run previews
	// (default: os.Stdout).
	Out io.Writer
}

// Result reports what Apply produced.
type Result struct {
	// WrittenPath is the mutated file, empty for ModeNone and dry runs.
	WrittenPath string
	// FinalText is the complete document text after the merge.
	FinalText string
	// BackupPath is the backup copy taken before mutation, if any.
	BackupPath string
	// Created is true when the target did not exist before.
	Created bool
}

// IOError reports a failed filesystem interaction with the target or its
// temporary/backup siblings.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Apply merges content into the target per its mode. The state machine over
// target existence and mode is:
//
//	none:      emit to the output stream, touch nothing
//	overwrite: create or replace the whole document
//	append:    create, or existing + separator + content
//	prepend:   create, or content + separator + existing
//	update:    create, or replace the matching section span
//	           (prepend a new section when no label matches)
//	auto:      update for structured change logs, append otherwise
func Apply(content string, target Target) (*Result, error) {
	out := target.Out
	if out == nil {
		out = os.Stdout
	}

	if target.Mode == ModeNone {
		fmt.Fprint(out, content)
		return &Result{FinalText: content}, nil
	}

	existing, exists, err := readTarget(target.Path)
	if err != nil {
		return nil, err
	}

	final, err := mergeText(content, existing, exists, target)
	if err != nil {
		return nil, err
	}

	if target.DryRun {
		fmt.Fprint(out, final)
		return &Result{FinalText: final, Created: !exists}, nil
	}

	result := &Result{FinalText: final, Created: !exists}

	if err := os.MkdirAll(filepath.Dir(target.Path), 0o755); err != nil {
		return nil, &IOError{Op: "creating directory for", Path: target.Path, Err: err}
	}

	if exists {
		backup, err := makeBackup(target.Path, existing)
		if err != nil {
			return nil, err
		}
		result.BackupPath = backup
	}

	if err := WriteFileAtomic(target.Path, []byte(final), 0o644); err != nil {
		return nil, err
	}
	result.WrittenPath = target.Path

	return result, nil
}

// mergeText computes the final document for every mode except none.
func mergeText(content, existing string, exists bool, target Target) (string, error) {
	if !exists {
		return ensureTrailingNewline(content), nil
	}

	switch target.Mode {
	case ModeOverwrite:
		return ensureTrailingNewline(content), nil
	case ModeAppend:
		return joinDocuments(existing, content), nil
	case ModePrepend:
		return joinDocuments(content, existing), nil
	case ModeUpdate:
		return updateDocument(existing, content, target.VersionLabel)
	case ModeAuto:
		if Classify(existing) == Structured {
			return updateDocument(existing, content, target.VersionLabel)
		}
		return joinDocuments(existing, content), nil
	default:
		return "", fmt.Errorf("unknown output mode %q", target.Mode)
	}
}

// joinDocuments concatenates two bodies with a blank-line separator while
// keeping the first byte-identical as a prefix and the second as a suffix.
func joinDocuments(first, second string) string {
	sep := "\n"
	if strings.HasSuffix(first, "\n") {
		sep = ""
	}
	return first + sep + "\n" + ensureTrailingNewline(second)
}

// readTarget loads the target when present.
func readTarget(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, &IOError{Op: "reading", Path: path, Err: err}
	}
	return string(data), true, nil
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
