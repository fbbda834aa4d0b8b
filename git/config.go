package git

// SetUser writes user.name and user.email to the repository config. Commits
// made through this repository are attributed to them.
func (r *Repository) SetUser(name, email string) error {
	cfg, err := r.repo.Config()
	if err != nil {
		return wrapError(err, "failed to read repository config")
	}
	cfg.User.Name = name
	cfg.User.Email = email
	if err := r.repo.SetConfig(cfg); err != nil {
		return wrapError(err, "failed to write repository config")
	}
	return nil
}

// User returns user.name and user.email from the repository config. Either
// may be empty.
func (r *Repository) User() (name, email string, err error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", "", wrapError(err, "failed to read repository config")
	}
	return cfg.User.Name, cfg.User.Email, nil
}
