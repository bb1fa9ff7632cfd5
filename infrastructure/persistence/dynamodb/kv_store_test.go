package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*dynamodb.GetItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*dynamodb.PutItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAPI) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*dynamodb.DeleteItemOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func stringAttr(t *testing.T, item map[string]types.AttributeValue, name string) string {
	t.Helper()
	av, ok := item[name].(*types.AttributeValueMemberS)
	require.True(t, ok, "attribute %s should be a string", name)
	return av.Value
}

func TestKeyValueStore_SetItem(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	store := NewKeyValueStore(api, "inspirations-table", "user-1", zap.NewNop())

	api.On("PutItem", ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return *in.TableName == "inspirations-table" &&
			stringAttr(t, in.Item, "PK") == "STORE#user-1" &&
			stringAttr(t, in.Item, "SK") == "KEY#inspirations" &&
			stringAttr(t, in.Item, "Value") == "[]"
	})).Return(&dynamodb.PutItemOutput{}, nil)

	require.NoError(t, store.SetItem(ctx, "inspirations", "[]"))
	api.AssertExpectations(t)
}

func TestKeyValueStore_GetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		api := new(mockAPI)
		store := NewKeyValueStore(api, "tbl", "", zap.NewNop())
		api.On("GetItem", ctx, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			projected := false
			for _, name := range in.ExpressionAttributeNames {
				projected = projected || name == "Value"
			}
			return stringAttr(t, in.Key, "PK") == "STORE#default" &&
				stringAttr(t, in.Key, "SK") == "KEY#userPreferences" &&
				in.ProjectionExpression != nil && projected
		})).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
			"Value": &types.AttributeValueMemberS{Value: `{"theme":"dark"}`},
		}}, nil)

		value, found, err := store.GetItem(ctx, "userPreferences")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"theme":"dark"}`, value)
	})

	t.Run("missing", func(t *testing.T) {
		api := new(mockAPI)
		store := NewKeyValueStore(api, "tbl", "", zap.NewNop())
		api.On("GetItem", ctx, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil)

		_, found, err := store.GetItem(ctx, "inspirations")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("client error", func(t *testing.T) {
		api := new(mockAPI)
		store := NewKeyValueStore(api, "tbl", "", zap.NewNop())
		api.On("GetItem", ctx, mock.Anything).Return(nil, errors.New("throttled"))

		_, _, err := store.GetItem(ctx, "inspirations")
		assert.ErrorContains(t, err, "throttled")
	})
}

func TestKeyValueStore_RemoveItem(t *testing.T) {
	ctx := context.Background()
	api := new(mockAPI)
	store := NewKeyValueStore(api, "tbl", "ns", zap.NewNop())
	api.On("DeleteItem", ctx, mock.Anything).Return(&dynamodb.DeleteItemOutput{}, nil)

	require.NoError(t, store.RemoveItem(ctx, "inspirations"))
	api.AssertExpectations(t)
}
