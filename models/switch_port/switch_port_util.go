package switch_port

import "strconv"

// SetOids expands per-port column OIDs into instance OIDs for this port.
func (sp *SwitchPort) SetOids(original_oids map[string]string) map[string]string {
	oids := make(map[string]string, len(original_oids))
	for key, oid := range original_oids {
		oids[key] = oid + "." + strconv.Itoa(sp.PortIndex)
	}
	return oids
}
