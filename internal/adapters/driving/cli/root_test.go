package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verbum/internal/core/domain"
)

type mockQuestionService struct {
	result   *domain.AnswerResult
	err      error
	text     string
	path     string
	question string
}

func (m *mockQuestionService) AnswerQuestion(_ context.Context, text, question string) (*domain.AnswerResult, error) {
	m.text = text
	m.question = question
	return m.result, m.err
}

func (m *mockQuestionService) AskDocument(_ context.Context, path, question string) (*domain.AnswerResult, error) {
	m.path = path
	m.question = question
	return m.result, m.err
}

type mockQueryService struct {
	reply string
	err   error
	path  string
	query string
}

func (m *mockQueryService) Query(_ context.Context, path, query string) (string, error) {
	m.path = path
	m.query = query
	return m.reply, m.err
}

type mockDocumentService struct {
	doc    *domain.Document
	chunks []domain.Chunk
	err    error
}

func (m *mockDocumentService) Load(context.Context, string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockDocumentService) Chunks(context.Context, string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

type mockLibraryService struct {
	root      *domain.HierarchyNode
	distances []domain.FolderDistance
	err       error
}

func (m *mockLibraryService) Hierarchy(context.Context) (*domain.HierarchyNode, error) {
	return m.root, m.err
}

func (m *mockLibraryService) Distances(context.Context) ([]domain.FolderDistance, error) {
	return m.distances, m.err
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	getErr      error
	validateErr error
	setErr      error

	role     string
	provider domain.AIProvider
	model    string
	apiKey   string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.settings == nil {
		s := domain.DefaultAppSettings()
		m.settings = &s
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = s
	return m.setErr
}

func (m *mockSettingsService) SetProvider(role string, provider domain.AIProvider, model, apiKey string) error {
	m.role, m.provider, m.model, m.apiKey = role, provider, model, apiKey
	return m.setErr
}

func (m *mockSettingsService) SetAPIKey(role, apiKey string) error {
	m.role, m.apiKey = role, apiKey
	return m.setErr
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

// executeCommand runs the root command with args and returns its output.
// Flag variables and services are reset afterwards.
func executeCommand(t *testing.T, services *Services, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags()
	SetServices(services)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		resetFlags()
		SetServices(nil)
		SetBootstrap(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	askJSON = false
	askStdin = false
	chunkJSON = false
	chunkPreview = 80
	libraryJSON = false
	settingsAPIKey = ""
	globalOpts = Options{}
}

func TestSetServices_Nil(t *testing.T) {
	SetServices(&Services{Question: &mockQuestionService{}})
	SetServices(nil)

	assert.Nil(t, questionService)
	assert.Nil(t, closeServices)
}

func TestSetVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestBootstrap(t *testing.T) {
	t.Run("services are built before the command runs", func(t *testing.T) {
		q := &mockQuestionService{result: &domain.AnswerResult{Answer: "yes"}}
		var got Options
		SetBootstrap(func(opts Options) (*Services, error) {
			got = opts
			return &Services{Question: q}, nil
		})

		out, err := executeCommand(t, nil, "", "--config-dir", "/tmp/verbum", "ask", "doc.txt", "ok?")

		require.NoError(t, err)
		assert.Equal(t, "/tmp/verbum", got.ConfigDir)
		assert.Contains(t, out, "Answer: yes")
	})

	t.Run("bootstrap failure", func(t *testing.T) {
		SetBootstrap(func(Options) (*Services, error) {
			return nil, errors.New("bad config")
		})

		_, err := executeCommand(t, nil, "", "ask", "doc.txt", "ok?")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "initialise: bad config")
	})
}

func TestExecute_ClosesServices(t *testing.T) {
	closed := false
	resetFlags()
	SetServices(&Services{Close: func() { closed = true }})
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		SetServices(nil)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	require.NoError(t, Execute())
	assert.True(t, closed)
}
