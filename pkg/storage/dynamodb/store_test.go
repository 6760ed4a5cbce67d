package dynamodb

import (
	"testing"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// transactWithOps matches a TransactWriteItems input carrying the expected
// number of operations.
func transactWithOps(ops int) interface{} {
	return mock.MatchedBy(func(input *awsdynamodb.TransactWriteItemsInput) bool {
		return len(input.TransactItems) == ops
	})
}

// queryOn matches a Query input against the given table and index.
func queryOn(table, index string) interface{} {
	return mock.MatchedBy(func(input *awsdynamodb.QueryInput) bool {
		if input.TableName == nil || *input.TableName != table {
			return false
		}
		if index == "" {
			return input.IndexName == nil
		}
		return input.IndexName != nil && *input.IndexName == index
	})
}

// scanOn matches a Scan input against the given table.
func scanOn(table string) interface{} {
	return mock.MatchedBy(func(input *awsdynamodb.ScanInput) bool {
		return input.TableName != nil && *input.TableName == table
	})
}

func TestNormalizeName(t *testing.T) {
	for input, want := range map[string]string{
		"Mail":        "mail",
		"  FB MAIL  ": "fb mail",
		"already":     "already",
	} {
		assert.Equal(t, want, normalizeName(input))
	}
}
