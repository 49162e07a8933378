// Package fileutil provides file system enumeration for varsub search patterns.
//
// # Purpose
//
// The fileutil package is designed for:
//   - Listing every path under a root in a stable, pre-order depth-first order
//   - Turning a user supplied search pattern into the list of files it names
//
// # Main Components
//
// Finder - walks a directory tree with an explicit work-list:
//   - The root is always the first element of the result
//   - Children are visited in directory-listing order
//   - Symbolic links are reported but never followed, so link cycles cannot
//     cause infinite traversal
//   - A missing root yields an empty result rather than an error
//
// FindFiles - resolves a search pattern against a workspace:
//   - Patterns without '*' or '?' are treated as literal paths
//   - Wildcard patterns are rooted at the longest wildcard-free directory
//     prefix, that directory is listed with Finder, and the listing is
//     filtered with the match package
//
// # Usage Examples
//
// Listing a tree:
//
//	finder := fileutil.NewFinder(logger.NewNoOpLogger())
//	paths, err := finder.Find("/repo/config")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Resolving a search pattern:
//
//	files, err := finder.FindFiles("config/**/*.json", os.Getenv("GITHUB_WORKSPACE"))
//
// # Error Handling
//
// Any file system failure other than a missing root aborts the walk and is
// returned wrapped in ErrOperationFailed, so callers can test it with
// errors.Is. No partial result is returned.
package fileutil
