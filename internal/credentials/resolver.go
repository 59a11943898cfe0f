package credentials

// Resolver decides which token a command uses, in priority order:
// environment token, explicitly requested workspace, sole stored
// credential. Anything else is an authentication error telling the user how
// to proceed.
type Resolver struct {
	store    *Store
	envToken string
}

// NewResolver builds a resolver over store. envToken is the value of the
// token environment variable, empty when unset.
func NewResolver(store *Store, envToken string) *Resolver {
	return &Resolver{store: store, envToken: envToken}
}

// Resolve returns the token to use and a label describing its source. The
// label is the workspace name for stored credentials, or "env" for an
// environment-supplied token.
func (r *Resolver) Resolve(workspace string) (string, string, error) {
	if r.envToken != "" {
		return r.envToken, "env", nil
	}

	if workspace != "" {
		cred := r.store.Find(workspace)
		if cred == nil {
			return "", "", NewAuthError("Workspace %q not found. Run: notas auth login", workspace)
		}
		return cred.Token, cred.Name, nil
	}

	creds := r.store.List()
	switch len(creds) {
	case 0:
		return "", "", NewAuthError("No workspaces configured. Run: notas auth login")
	case 1:
		return creds[0].Token, creds[0].Name, nil
	default:
		return "", "", NewAuthError(
			"Multiple workspaces configured. Use --workspace to specify: %s",
			joinNames(r.store.Names()))
	}
}
