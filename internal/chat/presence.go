package chat

// Presence accessors over a room's member set. Callers hold r.mu.

// addMemberLocked registers a member connection under name.
func (r *roomState) addMemberLocked(name string, c Conn) error {
	if _, ok := r.members[name]; ok {
		return ErrAlreadyPresent
	}
	r.members[name] = c
	return nil
}

// removeMemberLocked is a no-op when name is absent.
func (r *roomState) removeMemberLocked(name string) {
	delete(r.members, name)
}

func (r *roomState) memberCountLocked() int { return len(r.members) }

func (r *roomState) memberNamesLocked() []string {
	names := make([]string, 0, len(r.members))
	for name := range r.members {
		names = append(names, name)
	}
	return names
}
