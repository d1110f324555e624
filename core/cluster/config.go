package cluster

// Config holds the identity of the local node and the ports it exposes to peers.
type Config struct {
	// AppName identifies the cluster in the membership registry.
	AppName string `mapstructure:"app_name" default:"cass_cluster"`
	// InstanceID identifies this process in the registry. Generated when empty.
	InstanceID string `mapstructure:"instance_id" default:""`
	// Region is the data-center identifier of the local node.
	Region string `mapstructure:"region" default:""`
	// HostName is the private address (or internal DNS name) of the local node.
	HostName string `mapstructure:"host_name" default:""`
	// HostIP is the publicly routable address of the local node.
	HostIP string `mapstructure:"host_ip" default:""`
	// Seed marks the node that reconciles periodically for its region.
	Seed bool `mapstructure:"seed" default:"false"`
	// StoragePort is the inter-node storage port.
	StoragePort int `mapstructure:"storage_port" default:"7000"`
	// SSLStoragePort is the encrypted inter-node storage port.
	SSLStoragePort int `mapstructure:"ssl_storage_port" default:"7001"`
}

// Identity returns the local identity described by the configuration.
func (c Config) Identity() Identity {
	return Identity{
		AppName:        c.AppName,
		InstanceID:     c.InstanceID,
		Region:         c.Region,
		HostName:       c.HostName,
		HostIP:         c.HostIP,
		Seed:           c.Seed,
		StoragePort:    c.StoragePort,
		SSLStoragePort: c.SSLStoragePort,
	}
}
