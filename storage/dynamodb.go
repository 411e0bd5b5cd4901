/*
# Module: storage/dynamodb.go
DynamoDB backend for the location cache and donation log.

## Linked Modules
- [storage/repository](./repository.go) - Repository interfaces
- [types/location](../types/location.go) - Location cache records
- [types/donation](../types/donation.go) - Donation click records

## Tags
storage, dynamodb, persistence, repository

## Exports
DynamoDBAPI, DynamoStore, NewDynamoStore

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/dynamodb.go" ;
    code:description "DynamoDB backend for the location cache and donation log" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "./repository.go" ;
        code:relationship "Repository interfaces"
    ], [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location cache records"
    ], [
        code:name "types/donation" ;
        code:path "../types/donation.go" ;
        code:relationship "Donation click records"
    ] ;
    code:exports :DynamoDBAPI, :DynamoStore, :NewDynamoStore ;
    code:tags "storage", "dynamodb", "persistence", "repository" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"recipe-giving/types"
)

// DynamoDBAPI is the subset of *dynamodb.Client the store calls
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore implements Backend with two DynamoDB tables:
// locations keyed by visitor_id and donations keyed by id
type DynamoStore struct {
	client         DynamoDBAPI
	locationsTable string
	donationsTable string
}

// NewDynamoStore creates a new DynamoDB backend
func NewDynamoStore(client DynamoDBAPI, locationsTable, donationsTable string) *DynamoStore {
	return &DynamoStore{
		client:         client,
		locationsTable: locationsTable,
		donationsTable: donationsTable,
	}
}

// Get retrieves the cached location for a visitor
func (s *DynamoStore) Get(ctx context.Context, visitorID string) (*types.LocationCacheEntry, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.locationsTable),
		Key: map[string]dynamodbtypes.AttributeValue{
			"visitor_id": &dynamodbtypes.AttributeValueMemberS{Value: visitorID},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get cached location")
	}

	if result.Item == nil {
		return nil, nil
	}

	var entry types.LocationCacheEntry
	if err := attributevalue.UnmarshalMap(result.Item, &entry); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cached location")
	}

	return &entry, nil
}

// Put stores a visitor's location, replacing any previous record
func (s *DynamoStore) Put(ctx context.Context, entry types.LocationCacheEntry) error {
	if s.client == nil {
		return ErrNotConfigured
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return errors.Wrap(err, "failed to marshal cached location")
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.locationsTable),
		Item:      item,
	})
	if err != nil {
		return errors.Wrap(err, "failed to save location to DynamoDB")
	}

	logrus.WithField("visitor_id", entry.VisitorID).Debug("💾 Location cached in DynamoDB")
	return nil
}

// Save stores a donation record
func (s *DynamoStore) Save(ctx context.Context, donation types.Donation) error {
	if s.client == nil {
		return ErrNotConfigured
	}

	item, err := attributevalue.MarshalMap(donation)
	if err != nil {
		return errors.Wrap(err, "failed to marshal donation")
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.donationsTable),
		Item:      item,
	})
	if err != nil {
		return errors.Wrap(err, "failed to save donation to DynamoDB")
	}

	logrus.WithField("id", donation.ID).Info("💾 Donation saved to DynamoDB")
	return nil
}

// GetRecent scans the donations table and returns the newest limit records
func (s *DynamoStore) GetRecent(ctx context.Context, limit int) ([]types.Donation, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetAll retrieves all donations, following scan pagination
func (s *DynamoStore) GetAll(ctx context.Context) ([]types.Donation, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}

	donations := make([]types.Donation, 0)
	var lastEvaluatedKey map[string]dynamodbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName: aws.String(s.donationsTable),
		}
		if lastEvaluatedKey != nil {
			input.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan donations")
		}

		for _, item := range result.Items {
			var d types.Donation
			if err := attributevalue.UnmarshalMap(item, &d); err != nil {
				logrus.WithError(err).Warn("⚠️  Failed to unmarshal donation")
				continue
			}
			donations = append(donations, d)
		}

		lastEvaluatedKey = result.LastEvaluatedKey
		if len(lastEvaluatedKey) == 0 {
			break
		}
	}

	sortNewestFirst(donations)
	return donations, nil
}

func (s *DynamoStore) Info(ctx context.Context) StorageInfo {
	return StorageInfo{
		Type:        "dynamodb",
		Location:    fmt.Sprintf("%s,%s", s.locationsTable, s.donationsTable),
		LastSync:    time.Now(),
		RecordCount: -1,
	}
}

func (s *DynamoStore) Close() error { return nil }
