// Package conflict picks a final, collision-free stem for an image moving
// into a destination directory.
package conflict

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flyswxf/obsidian-ai-organizer/internal/extract"
)

const (
	// maxRetries bounds how many times a colliding candidate is sent back
	// to the namer before numeric suffixing takes over.
	maxRetries = 3

	// maxHintSiblings caps how many existing stems the disambiguation hint
	// lists.
	maxHintSiblings = 10

	// maxSuffixAttempts is a defensive bound; with a finite directory the
	// suffix loop always terminates long before this.
	maxSuffixAttempts = 10000
)

// Namer proposes a stem for a reference; hint carries collision feedback.
// Satisfied by naming.Resolver.
type Namer interface {
	NewName(ctx context.Context, ref extract.ImageReference, hint string) string
}

// Resolution is the outcome of conflict resolution for one reference.
type Resolution struct {
	// FinalStem is the collision-free stem to use.
	FinalStem string

	// AlreadyCompliant means the image already sits at the computed
	// destination under the candidate name; no move or rewrite is needed.
	AlreadyCompliant bool

	// Retries counts namer re-invocations that were needed.
	Retries int

	// Suffixed means the retry budget ran out and a numeric suffix was
	// appended.
	Suffixed bool
}

// Resolver drives the collision protocol. It also tracks destinations
// reserved earlier in the same run, so planned moves (including dry-run
// plans, which touch nothing on disk) cannot collide with each other.
type Resolver struct {
	namer    Namer
	reserved map[string]struct{}
}

func NewResolver(namer Namer) *Resolver {
	return &Resolver{
		namer:    namer,
		reserved: make(map[string]struct{}),
	}
}

// Reserve marks a destination path as claimed by the current run.
func (r *Resolver) Reserve(destPath string) {
	r.reserved[destPath] = struct{}{}
}

// resolution states. The candidate loops proposed -> collision -> proposed
// until it lands on resolved, or exhausts retries and gets suffixed.
type state int

const (
	stateProposed state = iota
	stateCollision
	stateRetryExhausted
	stateResolved
)

// Resolve returns a stem such that targetDir/stem+ext does not collide with
// any existing file or reserved destination. The fast path: if the computed
// destination is the reference's own current file, the reference is already
// compliant and nothing needs to move.
func (r *Resolver) Resolve(ctx context.Context, targetDir, stem, ext string, ref extract.ImageReference) (Resolution, error) {
	candidate := stem
	retries := 0
	suffixed := false

	st := stateProposed
	for {
		switch st {
		case stateProposed:
			dest := filepath.Join(targetDir, candidate+ext)
			switch {
			case r.isSelf(dest, ref.ImagePath):
				return Resolution{FinalStem: candidate, AlreadyCompliant: true, Retries: retries}, nil
			case !r.occupied(dest):
				st = stateResolved
			default:
				st = stateCollision
			}

		case stateCollision:
			if retries >= maxRetries {
				st = stateRetryExhausted
				continue
			}
			if err := ctx.Err(); err != nil {
				return Resolution{}, err
			}
			hint := collisionHint(candidate, r.siblingStems(targetDir, ext))
			retries++
			next := r.namer.NewName(ctx, ref, hint)
			if next == "" || next == candidate {
				// namer has nothing new; burn through the budget
				st = stateCollision
				continue
			}
			candidate = next
			st = stateProposed

		case stateRetryExhausted:
			found := false
			for i := 1; i <= maxSuffixAttempts; i++ {
				s := fmt.Sprintf("%s_%d", candidate, i)
				if !r.occupied(filepath.Join(targetDir, s+ext)) {
					candidate = s
					suffixed = true
					found = true
					break
				}
			}
			if !found {
				return Resolution{}, fmt.Errorf("no free name for %s%s in %s after %d suffix attempts", candidate, ext, targetDir, maxSuffixAttempts)
			}
			st = stateResolved

		case stateResolved:
			return Resolution{FinalStem: candidate, Retries: retries, Suffixed: suffixed}, nil
		}
	}
}

// occupied reports whether dest exists on disk or was reserved this run.
func (r *Resolver) occupied(dest string) bool {
	if _, ok := r.reserved[dest]; ok {
		return true
	}
	_, err := os.Stat(dest)
	return err == nil
}

// isSelf reports whether dest is the reference's own current file.
func (r *Resolver) isSelf(dest, imagePath string) bool {
	if imagePath == "" {
		return false
	}
	di, err := os.Stat(dest)
	if err != nil {
		return false
	}
	si, err := os.Stat(imagePath)
	if err != nil {
		return false
	}
	return os.SameFile(di, si)
}

// siblingStems lists up to maxHintSiblings stems in dir sharing ext.
func (r *Resolver) siblingStems(dir, ext string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var stems []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		stems = append(stems, strings.TrimSuffix(name, filepath.Ext(name)))
		if len(stems) == maxHintSiblings {
			break
		}
	}
	return stems
}

// collisionHint describes the rejected stem and the occupied neighborhood
// for the namer's retry.
func collisionHint(rejected string, siblings []string) string {
	if len(siblings) == 0 {
		return fmt.Sprintf("名称 %q 已被占用，请提出一个含义相同但写法不同的名称", rejected)
	}
	return fmt.Sprintf("名称 %q 已被占用，请提出一个含义相同但写法不同的名称。目录中已有: %s",
		rejected, strings.Join(siblings, "、"))
}
