package builtin

// RegisterAll adds all builtins to the registry.
func RegisterAll(r *Registry) {
	r.Register(&Addmb{})
	r.Register(&Cd{})
	r.Register(&Clear{})
	r.Register(&Dter{})
	r.Register(&Dtex{})
	r.Register(&Exit{})
	r.Register(&Fore{})
	r.Register(&Help{})
	r.Register(&History{})
	r.Register(&Jobs{})
}
