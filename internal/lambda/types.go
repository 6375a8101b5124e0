package lambda

// Specs describes the hardware profile of an instance type.
type Specs struct {
	VCPUs      int `json:"vcpus"`
	MemoryGiB  int `json:"memory_gib"`
	StorageGiB int `json:"storage_gib"`
}

// InstanceType describes a named compute SKU.
type InstanceType struct {
	Description       string `json:"description"`
	PriceCentsPerHour int    `json:"price_cents_per_hour"`
	Specs             Specs  `json:"specs"`
}

// Region identifies a datacenter region.
type Region struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Offer pairs an instance type with the regions that can currently fulfill
// a launch request for it. Offers are fetched fresh on every catalog query;
// capacity is time-varying and is never cached between polls.
type Offer struct {
	Name                string       `json:"-"`
	InstanceType        InstanceType `json:"instance_type"`
	RegionsWithCapacity []Region     `json:"regions_with_capacity_available"`
}

// HasCapacity reports whether at least one region can fulfill a launch.
func (o *Offer) HasCapacity() bool {
	return len(o.RegionsWithCapacity) > 0
}

// Instance is a running (or transitioning) compute resource. The status
// string is provider-defined and treated as opaque; callers only care
// whether a network address has been assigned yet.
type Instance struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	IP          string   `json:"ip"`
	SSHKeyNames []string `json:"ssh_key_names"`
}

// HasAddress reports whether the instance has been assigned a network
// address and is therefore connectable.
func (i *Instance) HasAddress() bool {
	return i.IP != ""
}

// SSHKey is an SSH key registered with the provider.
type SSHKey struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	PublicKey string `json:"public_key"`
}

// launchRequest is the wire format for the launch operation.
type launchRequest struct {
	RegionName       string   `json:"region_name"`
	InstanceTypeName string   `json:"instance_type_name"`
	SSHKeyNames      []string `json:"ssh_key_names"`
	Quantity         int      `json:"quantity"`
}

// terminateRequest is the wire format for the terminate operation.
type terminateRequest struct {
	InstanceIDs []string `json:"instance_ids"`
}

// addKeyRequest is the wire format for registering an SSH key.
type addKeyRequest struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key"`
}
