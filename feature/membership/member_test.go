package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testMember(id, region, host, ip string) Member {
	return Member{InstanceID: id, AppID: "cass_test", Region: region, HostName: host, HostIP: ip}
}

func TestMember_Validate(t *testing.T) {
	valid := testMember("i-1", "us-east-1", "10.0.0.1", "1.2.3.4")
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Member)
		want   string
	}{
		{"Instance", func(m *Member) { m.InstanceID = "" }, "instance id is required"},
		{"App", func(m *Member) { m.AppID = "" }, "app id is required"},
		{"Region", func(m *Member) { m.Region = "" }, "region is required"},
		{"Host name", func(m *Member) { m.HostName = "" }, "host name is required"},
		{"Host ip", func(m *Member) { m.HostIP = "" }, "host ip is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			err := m.Validate()
			assert.ErrorIs(t, err, ErrInvalidMember)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSortMembers(t *testing.T) {
	members := []Member{
		testMember("c", "us-west-2", "10.1.0.1", "5.6.7.8"),
		testMember("b", "us-east-1", "10.0.0.2", "2.2.2.2"),
		testMember("a", "us-east-1", "10.0.0.1", "1.1.1.1"),
	}
	sortMembers(members)
	assert.Equal(t, "a", members[0].InstanceID)
	assert.Equal(t, "b", members[1].InstanceID)
	assert.Equal(t, "c", members[2].InstanceID)
}

func TestNewInstanceID(t *testing.T) {
	a, b := NewInstanceID(), NewInstanceID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
