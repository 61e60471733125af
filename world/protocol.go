package world

// Bedrock protocol versions that have block data files.
const (
	Protocol1_18_10 int32 = 486
	Protocol1_18_30 int32 = 503
	Protocol1_19_0  int32 = 527
	Protocol1_19_10 int32 = 534
	Protocol1_19_20 int32 = 544
	Protocol1_19_21 int32 = 545
	Protocol1_19_30 int32 = 554
	Protocol1_19_40 int32 = 557
	Protocol1_19_50 int32 = 560
	Protocol1_19_60 int32 = 567
	Protocol1_19_63 int32 = 568
	Protocol1_19_70 int32 = 575
	Protocol1_19_80 int32 = 582

	CurrentProtocol = Protocol1_19_80
)

// mappingRule folds the protocol versions in [from, to] onto target, whose block
// state table they share.
type mappingRule struct {
	from, to, target int32
}

// Rules are checked in order. No target may fall inside any rule's range.
var mappingRules = []mappingRule{
	// 1.19.60 clients got the 1.19.63 palette
	{from: Protocol1_19_60, to: Protocol1_19_60, target: Protocol1_19_63},
	{from: Protocol1_19_0, to: Protocol1_19_0, target: Protocol1_19_10},
	// 1.19.20, 1.19.21 and 1.19.30
	{from: Protocol1_19_20, to: Protocol1_19_40 - 1, target: Protocol1_19_40},
}

// MappingProtocol returns the protocol whose block tables serve clients of the
// given protocol version. Block translation is always keyed by mapping protocol,
// never by the raw version a client reports.
func MappingProtocol(protocolID int32) int32 {
	for _, rule := range mappingRules {
		if protocolID >= rule.from && protocolID <= rule.to {
			return rule.target
		}
	}
	return protocolID
}

// ProtocolConn is anything with a raw client protocol version.
type ProtocolConn interface {
	ProtocolID() int32
}

// GroupByMappingProtocol partitions conns by their mapping protocol, keeping the
// relative order of conns within each group.
func GroupByMappingProtocol[C ProtocolConn](conns []C) map[int32][]C {
	groups := make(map[int32][]C)
	for _, conn := range conns {
		mappingProtocol := MappingProtocol(conn.ProtocolID())
		groups[mappingProtocol] = append(groups[mappingProtocol], conn)
	}
	return groups
}
