package publish

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neerchitra/neerchitra-cli/internal/model"
	"github.com/neerchitra/neerchitra-cli/pkg/salesforce"
)

// mockNotionClient implements notion.Client for testing.
type mockNotionClient struct {
	mock.Mock
}

func (m *mockNotionClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *mockNotionClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

// mockSFClient implements salesforce.Client for testing.
type mockSFClient struct {
	mock.Mock
}

func (m *mockSFClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	args := m.Called(ctx, sObjectName, record)
	return args.String(0), args.Error(1)
}

func (m *mockSFClient) InsertCollection(ctx context.Context, sObjectName string, records []map[string]any) ([]salesforce.CollectionResult, error) {
	args := m.Called(ctx, sObjectName, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]salesforce.CollectionResult), args.Error(1)
}

func publishFixtures() []model.ScoredLake {
	return []model.ScoredLake{
		{
			LakeRecord:    model.LakeRecord{Name: "Velachery Lake", District: "Chennai", DegradationPct: 72, PopulationImpact: 5200, FloodRisk: 9},
			PriorityScore: 81.15,
			Status:        model.StatusCritical,
		},
		{
			LakeRecord:    model.LakeRecord{Name: "Puzhal Lake", District: "Thiruvallur", DegradationPct: 45, PopulationImpact: 8000, FloodRisk: 8},
			PriorityScore: 61.2,
			Status:        model.StatusHigh,
		},
		{
			LakeRecord:    model.LakeRecord{Name: "Korattur Lake", District: "Chennai", DegradationPct: 38, PopulationImpact: 3100, FloodRisk: 6},
			PriorityScore: 29.0,
			Status:        model.StatusModerate,
		},
	}
}

func TestNotionPublishCreatesPageInQueueOrder(t *testing.T) {
	ranked := publishFixtures()

	client := new(mockNotionClient)
	var seenTitles []string
	client.On("CreatePage", mock.Anything, mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		title := req.Properties["Name"].(notionapi.TitleProperty)
		seenTitles = append(seenTitles, title.Title[0].Text.Content)
		return req.Parent.DatabaseID == "db-123"
	})).Return(&notionapi.Page{}, nil).Times(3)

	p := NewNotionPublisher(client, "db-123")
	n, err := p.Publish(context.Background(), ranked)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"Velachery Lake", "Puzhal Lake", "Korattur Lake"}, seenTitles)
	client.AssertExpectations(t)
}

func TestNotionPublishStopsOnFirstFailure(t *testing.T) {
	ranked := publishFixtures()

	client := new(mockNotionClient)
	client.On("CreatePage", mock.Anything, mock.Anything).Return(&notionapi.Page{}, nil).Once()
	client.On("CreatePage", mock.Anything, mock.Anything).Return(nil, eris.New("rate limited")).Once()

	p := NewNotionPublisher(client, "db-123")
	n, err := p.Publish(context.Background(), ranked)

	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "Puzhal Lake")
}

func TestSalesforcePublishRespectsCutoff(t *testing.T) {
	ranked := publishFixtures()

	client := new(mockSFClient)
	client.On("InsertCollection", mock.Anything, "Case", mock.MatchedBy(func(records []map[string]any) bool {
		return len(records) == 2 // Critical + High, Moderate excluded
	})).Return([]salesforce.CollectionResult{
		{ID: "500-1", Success: true},
		{ID: "500-2", Success: true},
	}, nil)

	p, err := NewSalesforcePublisher(client, model.StatusHigh)
	require.NoError(t, err)

	n, err := p.Publish(context.Background(), ranked)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	client.AssertExpectations(t)
}

func TestSalesforcePublishNothingQualifies(t *testing.T) {
	client := new(mockSFClient)

	p, err := NewSalesforcePublisher(client, model.StatusCritical)
	require.NoError(t, err)

	ranked := []model.ScoredLake{
		{LakeRecord: model.LakeRecord{Name: "Korattur Lake"}, PriorityScore: 29, Status: model.StatusModerate},
	}
	n, err := p.Publish(context.Background(), ranked)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	client.AssertNotCalled(t, "InsertCollection")
}

func TestSalesforcePublishPartialFailure(t *testing.T) {
	ranked := publishFixtures()

	client := new(mockSFClient)
	client.On("InsertCollection", mock.Anything, "Case", mock.Anything).Return([]salesforce.CollectionResult{
		{ID: "500-1", Success: true},
		{Success: false, Errors: []string{"REQUIRED_FIELD_MISSING"}},
	}, nil)

	p, err := NewSalesforcePublisher(client, model.StatusHigh)
	require.NoError(t, err)

	n, err := p.Publish(context.Background(), ranked)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "1 of 2 cases failed")
}

func TestSalesforcePublisherUnknownCutoff(t *testing.T) {
	_, err := NewSalesforcePublisher(new(mockSFClient), model.Status("Severe"))
	assert.Error(t, err)
}

func TestCaseRecordPriorityMapping(t *testing.T) {
	cases := []struct {
		status   model.Status
		priority string
	}{
		{model.StatusCritical, "High"},
		{model.StatusHigh, "High"},
		{model.StatusModerate, "Medium"},
		{model.StatusLow, "Low"},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			rec := caseRecord(1, model.ScoredLake{
				LakeRecord: model.LakeRecord{Name: "Test Lake"},
				Status:     tc.status,
			})
			assert.Equal(t, tc.priority, rec["Priority"])
		})
	}
}
