package repository

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LastEvaluatedKey is the primary key a scan page stopped at.
type LastEvaluatedKey struct {
	ID string `json:"id" dynamodbav:"id"`
}

// EncodeNextToken creates an opaque continuation token from a key.
func EncodeNextToken(key LastEvaluatedKey) string {
	if key.ID == "" {
		return ""
	}

	data, err := json.Marshal(key)
	if err != nil {
		return ""
	}

	return base64.URLEncoding.EncodeToString(data)
}

// DecodeNextToken decodes a token produced by EncodeNextToken.
func DecodeNextToken(token string) (LastEvaluatedKey, error) {
	var key LastEvaluatedKey
	if token == "" {
		return key, nil
	}

	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return key, ErrInvalidToken{Token: token, Reason: "not base64"}
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return key, ErrInvalidToken{Token: token, Reason: "malformed key"}
	}
	if key.ID == "" {
		return key, ErrInvalidToken{Token: token, Reason: "missing id"}
	}

	return key, nil
}

// TokenFromAttributes builds a continuation token from DynamoDB's LastEvaluatedKey.
func TokenFromAttributes(lastEvaluatedKey map[string]types.AttributeValue) (string, error) {
	if len(lastEvaluatedKey) == 0 {
		return "", nil
	}

	var key LastEvaluatedKey
	if err := attributevalue.UnmarshalMap(lastEvaluatedKey, &key); err != nil {
		return "", fmt.Errorf("failed to read last evaluated key: %w", err)
	}

	return EncodeNextToken(key), nil
}

// AttributesFromToken turns a continuation token back into an ExclusiveStartKey.
// An empty token yields a nil map.
func AttributesFromToken(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	key, err := DecodeNextToken(token)
	if err != nil {
		return nil, err
	}

	return attributevalue.MarshalMap(key)
}
