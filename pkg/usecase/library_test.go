package usecase_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
	"github.com/m-mizutani/cadport/pkg/infra/portal"
	"github.com/m-mizutani/cadport/pkg/infra/sink"
	"github.com/m-mizutani/cadport/pkg/usecase"
)

type portalFixture struct {
	server    *httptest.Server
	library   interfaces.LibraryUseCase
	dirs      sink.Dirs
	metrics   *countingMetrics
	referers  []string
	archive   []byte
}

func newPortalFixture(t *testing.T) *portalFixture {
	t.Helper()
	fx := &portalFixture{
		dirs:    testDirs(t),
		metrics: &countingMetrics{},
		archive: buildZip(t, []zipEntry{
			{name: "R-00001/footprint.edf", body: "EDF"},
			{name: "R-00001/r.pad", body: "PAD"},
			{name: "R-00001/notes.txt", body: "ignored"},
		}),
	}

	page := func(w http.ResponseWriter, link string) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `<html><body><a href="/datasheet.pdf">Datasheet</a><a href="%s">Download CAD library</a></body></html>`, link)
	}

	fx.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/part/ACME/R-00001":
			page(w, "/download/R-00001.zip")
		case "/part/ACME/MISSING":
			page(w, "/download/missing.zip")
		case "/part/ACME/LOCKED":
			page(w, "/download/locked.zip")
		case "/part/ACME/NOLINK":
			fmt.Fprint(w, `<html><body>No CAD models</body></html>`)
		case "/download/R-00001.zip":
			fx.referers = append(fx.referers, r.Header.Get("Referer"))
			w.Header().Set("Content-Type", "application/zip")
			_, _ = w.Write(fx.archive)
		case "/download/locked.zip":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fx.server.Close)

	client, err := portal.New(fx.server.URL)
	gt.NoError(t, err)

	fs := sink.New(fx.dirs)
	fx.library = usecase.NewLibrary(
		loggedIn(),
		client,
		fs,
		usecase.NewExtractor(fs),
		usecase.WithMatchers(portal.DefaultMatchers()...),
		usecase.WithMetrics(fx.metrics),
		usecase.WithSource("example-portal"),
	)
	return fx
}

func TestLibrary_Download(t *testing.T) {
	fx := newPortalFixture(t)

	result := fx.library.Download(context.Background(), &model.AcquisitionRequest{
		PartNumber:   "R-00001",
		Manufacturer: "ACME",
	})

	gt.True(t, result.Success)
	gt.Value(t, result.Error).Equal("")
	gt.Value(t, result.Filename).Equal("R-00001_ACME.zip")
	gt.Value(t, result.Source).Equal("example-portal")
	gt.Value(t, result.ComponentURL).Equal(fx.server.URL + "/part/ACME/R-00001")
	gt.A(t, result.ExtractedFiles).Length(2)

	saved, err := os.ReadFile(result.Path)
	gt.NoError(t, err)
	gt.Value(t, saved).Equal(fx.archive)

	absDownload, err := filepath.Abs(fx.dirs.Download)
	gt.NoError(t, err)
	gt.Value(t, filepath.Dir(result.Path)).Equal(absDownload)

	gt.Value(t, fx.referers).Equal([]string{fx.server.URL + "/part/ACME/R-00001"})
	gt.Value(t, fx.metrics.acquisitions).Equal([]string{usecase.AcquisitionOutcomeSuccess})
}

func TestLibrary_Download_ErrorMapping(t *testing.T) {
	fx := newPortalFixture(t)
	ctx := context.Background()

	t.Run("archive fetch 404", func(t *testing.T) {
		result := fx.library.Download(ctx, &model.AcquisitionRequest{PartNumber: "MISSING", Manufacturer: "ACME"})
		gt.False(t, result.Success)
		gt.Value(t, result.Error).Equal("Part not found")
		gt.False(t, result.RequiresLogin)
		gt.Value(t, result.Path).Equal("")
		gt.A(t, result.ExtractedFiles).Length(0)
	})

	t.Run("archive fetch 403", func(t *testing.T) {
		result := fx.library.Download(ctx, &model.AcquisitionRequest{PartNumber: "LOCKED", Manufacturer: "ACME"})
		gt.False(t, result.Success)
		gt.True(t, result.RequiresLogin)
		gt.Value(t, result.Error).Equal(model.ErrKindAuthFailed)
	})

	t.Run("detail page 404", func(t *testing.T) {
		result := fx.library.Download(ctx, &model.AcquisitionRequest{PartNumber: "UNKNOWN", Manufacturer: "ACME"})
		gt.False(t, result.Success)
		gt.Value(t, result.Error).Equal("Part not found")
	})

	t.Run("no download link", func(t *testing.T) {
		result := fx.library.Download(ctx, &model.AcquisitionRequest{PartNumber: "NOLINK", Manufacturer: "ACME"})
		gt.False(t, result.Success)
		gt.Value(t, result.Error).Equal(model.ErrKindLinkNotFound)
		gt.False(t, result.RequiresLogin)
	})
}

func TestLibrary_Download_SignInRedirect(t *testing.T) {
	mock := &mockPortal{
		fetchPageFunc: func(ctx context.Context, session *model.Session, pageURL string) (*model.PortalPage, error) {
			return nil, &model.PortalError{Kind: model.PortalErrSignInRedirect, URL: pageURL}
		},
	}
	uc := usecase.NewLibrary(loggedIn(), mock, sink.New(testDirs(t)), nil)

	result := uc.Download(context.Background(), &model.AcquisitionRequest{PartNumber: "R-00001", Manufacturer: "ACME"})
	gt.False(t, result.Success)
	gt.True(t, result.RequiresLogin)
	gt.Value(t, result.Error).Equal("Authentication required")
}

func TestLibrary_Download_NotAuthenticated(t *testing.T) {
	uc := usecase.NewLibrary(&staticSessions{}, &mockPortal{}, sink.New(testDirs(t)), nil)

	result := uc.Download(context.Background(), &model.AcquisitionRequest{PartNumber: "R-00001", Manufacturer: "ACME"})
	gt.False(t, result.Success)
	gt.True(t, result.RequiresLogin)
	gt.Value(t, result.Error).Equal(model.ErrKindAuthRequired)
}

func TestLibrary_Download_InvalidRequest(t *testing.T) {
	uc := usecase.NewLibrary(loggedIn(), &mockPortal{}, sink.New(testDirs(t)), nil)
	ctx := context.Background()

	testCases := []struct {
		name string
		req  *model.AcquisitionRequest
	}{
		{name: "nil request"},
		{name: "missing part number", req: &model.AcquisitionRequest{Manufacturer: "ACME"}},
		{name: "missing manufacturer", req: &model.AcquisitionRequest{PartNumber: "R-00001"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := uc.Download(ctx, tc.req)
			gt.False(t, result.Success)
			gt.Value(t, result.Error).Equal(model.ErrKindInvalidRequest)
		})
	}
}

func TestLibrary_Download_ExplicitURLAndNonZip(t *testing.T) {
	const explicit = "https://portal.example.com/custom/page"
	var fetched, referer string

	mock := &mockPortal{
		fetchPageFunc: func(ctx context.Context, session *model.Session, pageURL string) (*model.PortalPage, error) {
			fetched = pageURL
			return &model.PortalPage{URL: pageURL, Body: []byte(`<a href="/download/archive">Download</a>`)}, nil
		},
		downloadFunc: func(ctx context.Context, session *model.Session, fileURL, ref string) (*model.PortalFile, error) {
			gt.Value(t, fileURL).Equal("https://portal.example.com/download/archive")
			referer = ref
			return &model.PortalFile{URL: fileURL, ContentType: "application/x-7z-compressed", Data: []byte("7z")}, nil
		},
	}

	uc := usecase.NewLibrary(loggedIn(), mock, sink.New(testDirs(t)), nil,
		usecase.WithMatchers(portal.DefaultMatchers()...))

	result := uc.Download(context.Background(), &model.AcquisitionRequest{
		PartNumber:  "LM317/T",
		DownloadURL: explicit,
	})

	gt.True(t, result.Success)
	gt.Value(t, fetched).Equal(explicit)
	gt.Value(t, referer).Equal(explicit)
	gt.Value(t, result.Filename).Equal("LM317T_unknown.7z")
	gt.A(t, result.ExtractedFiles).Length(0)
	gt.String(t, result.Message).Contains("skipped")
}

func TestArchiveExtension(t *testing.T) {
	testCases := map[string]string{
		"application/zip":                        "zip",
		"application/x-zip-compressed":           "zip",
		"application/x-7z-compressed":            "7z",
		"application/vnd.rar":                    "rar",
		"application/x-rar-compressed":           "rar",
		"application/gzip":                       "gz",
		"application/x-tar":                      "tar",
		"application/octet-stream":               "zip",
		"APPLICATION/X-7Z-COMPRESSED; name=a.7z": "7z",
		"":                                       "zip",
	}
	for contentType, want := range testCases {
		gt.Value(t, usecase.ArchiveExtension(contentType)).Equal(want)
	}
}

func TestArchiveFilename(t *testing.T) {
	gt.Value(t, usecase.ArchiveFilename("RC0603FR-0710KL", "Yageo", "zip")).Equal("RC0603FR-0710KL_Yageo.zip")
	gt.Value(t, usecase.ArchiveFilename("LM317 T", "Texas Instruments", "zip")).Equal("LM317T_Texas Instruments.zip")
	gt.Value(t, usecase.ArchiveFilename("R1", "../../etc", "zip")).Equal("R1_____etc.zip")
	gt.Value(t, usecase.ArchiveFilename("R1", "", "gz")).Equal("R1_unknown.gz")
}
