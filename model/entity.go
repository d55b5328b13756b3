package model

func (c *Context) GetID() int64            { return c.ID }
func (c *Context) SetID(id int64)          { c.ID = id }
func (u *User) GetID() int64               { return u.ID }
func (u *User) SetID(id int64)             { u.ID = id }
func (s *Submission) GetID() int64         { return s.ID }
func (s *Submission) SetID(id int64)       { s.ID = id }
func (p *Publication) GetID() int64        { return p.ID }
func (p *Publication) SetID(id int64)      { p.ID = id }
func (a *Author) GetID() int64             { return a.ID }
func (a *Author) SetID(id int64)           { a.ID = id }
func (g *Galley) GetID() int64             { return g.ID }
func (g *Galley) SetID(id int64)           { g.ID = id }
func (d *DOI) GetID() int64                { return d.ID }
func (d *DOI) SetID(id int64)              { d.ID = id }
func (f *SubmissionFile) GetID() int64     { return f.ID }
func (f *SubmissionFile) SetID(id int64)   { f.ID = id }
func (f *File) GetID() int64               { return f.ID }
func (f *File) SetID(id int64)             { f.ID = id }
func (r *ReviewRound) GetID() int64        { return r.ID }
func (r *ReviewRound) SetID(id int64)      { r.ID = id }
func (r *ReviewAssignment) GetID() int64   { return r.ID }
func (r *ReviewAssignment) SetID(id int64) { r.ID = id }
func (r *ReviewForm) GetID() int64         { return r.ID }
func (r *ReviewForm) SetID(id int64)       { r.ID = id }
func (q *Query) GetID() int64              { return q.ID }
func (q *Query) SetID(id int64)            { q.ID = id }
func (n *Note) GetID() int64               { return n.ID }
func (n *Note) SetID(id int64)             { n.ID = id }
