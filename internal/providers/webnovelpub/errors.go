package webnovelpub

import "fmt"

type FetchErrorKind int

const (
	UnexpectedStatus FetchErrorKind = iota + 1
	Unreachable
	InvalidBody
)

func (k FetchErrorKind) String() string {
	switch k {
	case UnexpectedStatus:
		return "unexpected status"
	case Unreachable:
		return "unreachable"
	case InvalidBody:
		return "invalid body"
	default:
		return "unknown"
	}
}

// FetchError classifies a failed GET against the site.
type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case UnexpectedStatus:
		return fmt.Sprintf("%s: unexpected status code %d", e.URL, e.Status)
	case Unreachable:
		return fmt.Sprintf("%s: site is unreachable: %v", e.URL, e.Err)
	case InvalidBody:
		return fmt.Sprintf("%s: invalid body: %v", e.URL, e.Err)
	}

	return fmt.Sprintf("%s: fetch failed", e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

type InitErrorKind int

const (
	PageUnavailable InitErrorKind = iota + 1
	TitleContainerMissing
	TitleAnchorMissing
	TitleAttributeMissing
	ChapterListContainerMissing
)

// InitError is returned by Open when the first listing page cannot be used.
type InitError struct {
	Kind InitErrorKind
	Err  error
}

func (e *InitError) Error() string {
	var msg string
	switch e.Kind {
	case PageUnavailable:
		msg = "unable to fetch the first page of the chapter list"
	case TitleContainerMissing:
		msg = fmt.Sprintf("unable to find novel title container %q", selNovelInfo)
	case TitleAnchorMissing:
		msg = fmt.Sprintf("unable to find <a> inside %q", selNovelInfo)
	case TitleAttributeMissing:
		msg = "novel title <a> has no title attribute"
	case ChapterListContainerMissing:
		msg = fmt.Sprintf("unable to find chapter list container %q", selChapterList)
	default:
		msg = "chapter list initialization failed"
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

func (e *InitError) Unwrap() error { return e.Err }

type WriteErrorKind int

const (
	// Http is a transient network or status failure; the chapter may be retried.
	Http WriteErrorKind = iota + 1
	// Protocol means the page was fetched but its structure is not recognised.
	Protocol
	// File means the output sink rejected a write.
	File
)

func (k WriteErrorKind) String() string {
	switch k {
	case Http:
		return "http"
	case Protocol:
		return "protocol"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// WriteError is returned by Render.
type WriteError struct {
	Kind WriteErrorKind
	Msg  string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Kind == File {
		return fmt.Sprintf("write file error: %v", e.Err)
	}
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}

	return e.Msg
}

func (e *WriteError) Unwrap() error { return e.Err }

// Retryable reports whether the chapter is worth another attempt.
func (e *WriteError) Retryable() bool { return e.Kind == Http }
