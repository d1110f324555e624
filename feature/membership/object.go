package membership

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"sgsync/core/storage"

	"github.com/minio/minio-go/v7"
)

// DefaultObjectPrefix is the bucket prefix under which member records live.
const DefaultObjectPrefix = "members"

// ObjectRegistry stores one JSON object per member in a bucket.
type ObjectRegistry struct {
	client storage.Client
	bucket string
	prefix string
	now    func() time.Time
}

// NewObjectRegistry returns a registry over bucket. Objects are named
// <prefix>/<app>/<instance>.json.
func NewObjectRegistry(client storage.Client, bucket, prefix string) *ObjectRegistry {
	if prefix == "" {
		prefix = DefaultObjectPrefix
	}
	return &ObjectRegistry{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		now:    time.Now,
	}
}

func (r *ObjectRegistry) appPrefix(appID string) string {
	return path.Join(r.prefix, appID) + "/"
}

func (r *ObjectRegistry) objectName(appID, instanceID string) string {
	return r.appPrefix(appID) + instanceID + ".json"
}

// Register uploads the member record, replacing any previous version.
func (r *ObjectRegistry) Register(ctx context.Context, m Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.UpdatedAt = r.now().UTC()

	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode member %s: %w", m.InstanceID, err)
	}

	_, err = r.client.PutObject(ctx, r.bucket, r.objectName(m.AppID, m.InstanceID),
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to register member %s: %w", m.InstanceID, err)
	}
	return nil
}

// Deregister removes the member object.
func (r *ObjectRegistry) Deregister(ctx context.Context, m Member) error {
	err := r.client.RemoveObject(ctx, r.bucket, r.objectName(m.AppID, m.InstanceID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to deregister member %s: %w", m.InstanceID, err)
	}
	return nil
}

// ListMembers implements Registry.
func (r *ObjectRegistry) ListMembers(ctx context.Context, appID string) ([]Member, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objects := r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{
		Prefix:    r.appPrefix(appID),
		Recursive: true,
	})

	members := []Member{}
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list members of %s: %w", appID, obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		m, err := r.read(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	sortMembers(members)
	return members, nil
}

func (r *ObjectRegistry) read(ctx context.Context, key string) (Member, error) {
	body, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return Member{}, fmt.Errorf("failed to read member object %s: %w", key, err)
	}
	defer body.Close()

	var m Member
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		return Member{}, fmt.Errorf("failed to decode member object %s: %w", key, err)
	}
	return m, nil
}
