package grid

import "strings"

// Select marca una única zona como seleccionada. No hace nada durante un gesto.
func (e *Editor) Select(id ZoneID) error {
	if e.gesture.mode != ModeIdle {
		return ErrNotIdle
	}
	i := e.indexOf(id)
	if i < 0 {
		return ErrZoneNotFound
	}
	e.selectIndex(i)
	return nil
}

func (e *Editor) ClearSelection() {
	if e.gesture.mode != ModeIdle {
		return
	}
	for i := range e.zones {
		e.zones[i].Selected = false
	}
}

func (e *Editor) Selected() (Zone, bool) {
	i := e.selectedIndex()
	if i < 0 {
		return Zone{}, false
	}
	return e.zones[i], true
}

func (e *Editor) selectIndex(idx int) {
	for i := range e.zones {
		e.zones[i].Selected = i == idx
	}
}

// DeleteSelected quita la zona seleccionada y pide el borrado al sink.
func (e *Editor) DeleteSelected() (Zone, error) {
	if e.gesture.mode != ModeIdle {
		return Zone{}, ErrNotIdle
	}
	i := e.selectedIndex()
	if i < 0 {
		return Zone{}, ErrNoSelection
	}
	z := e.zones[i]
	e.zones = append(e.zones[:i], e.zones[i+1:]...)
	if e.renaming != nil && *e.renaming == z.ID {
		e.renaming, e.buffer = nil, ""
	}
	if e.sink != nil {
		e.sink.DeleteCabinet(z.ID)
	}
	z.Selected = false
	return z, nil
}

// BeginRename abre la edición inline del nombre. Empezar otra edición descarta la anterior.
func (e *Editor) BeginRename(id ZoneID) error {
	if e.gesture.mode != ModeIdle {
		return ErrNotIdle
	}
	i := e.indexOf(id)
	if i < 0 {
		return ErrZoneNotFound
	}
	e.renaming = &id
	e.buffer = e.zones[i].Name
	return nil
}

func (e *Editor) EditRename(text string) {
	if e.renaming != nil {
		e.buffer = text
	}
}

func (e *Editor) CancelRename() {
	e.renaming, e.buffer = nil, ""
}

// CommitRename aplica el buffer (Enter). Un buffer vacío cancela sin avisar al sink.
func (e *Editor) CommitRename() (Zone, bool) {
	if e.renaming == nil {
		return Zone{}, false
	}
	id, name := *e.renaming, strings.TrimSpace(e.buffer)
	e.CancelRename()
	if name == "" {
		return Zone{}, false
	}
	i := e.indexOf(id)
	if i < 0 {
		return Zone{}, false
	}
	z := e.zones[i]
	z.Name = name
	e.zones[i] = z
	e.emitUpdate(z)
	return z, true
}

func (e *Editor) Renaming() (ZoneID, bool) {
	if e.renaming == nil {
		return ZoneID{}, false
	}
	return *e.renaming, true
}
