package tree

import "strings"

// Hierarchy records the supertype of each known exception type. Types are
// stored by simple name; qualified names are reduced before lookup.
//
// Names the hierarchy has never seen are treated as direct subclasses of
// Exception, i.e. as checked exceptions.
type Hierarchy struct {
	parent map[string]string
}

var jdkExceptions = map[string][]string{
	"Throwable": {"Exception", "Error"},
	"Exception": {
		"RuntimeException", "IOException", "ReflectiveOperationException",
		"InterruptedException", "CloneNotSupportedException", "SQLException",
		"TimeoutException", "ExecutionException", "URISyntaxException",
		"ParseException", "GeneralSecurityException",
	},
	"IOException": {
		"FileNotFoundException", "EOFException", "UnsupportedEncodingException",
		"MalformedURLException", "SocketException", "UnknownHostException",
	},
	"ReflectiveOperationException": {
		"ClassNotFoundException", "NoSuchMethodException", "NoSuchFieldException",
		"IllegalAccessException", "InstantiationException", "InvocationTargetException",
	},
	"GeneralSecurityException": {"NoSuchAlgorithmException", "InvalidKeyException"},
	"RuntimeException": {
		"IllegalArgumentException", "IllegalStateException", "NullPointerException",
		"IndexOutOfBoundsException", "ArithmeticException", "ClassCastException",
		"UnsupportedOperationException", "ConcurrentModificationException",
		"UncheckedIOException", "SecurityException", "NoSuchElementException",
		"ArrayStoreException", "NegativeArraySizeException",
	},
	"IllegalArgumentException":  {"NumberFormatException"},
	"IndexOutOfBoundsException": {"ArrayIndexOutOfBoundsException", "StringIndexOutOfBoundsException"},
	"Error":                     {"AssertionError", "OutOfMemoryError", "StackOverflowError", "LinkageError"},
}

// NewHierarchy returns a hierarchy seeded with the common JDK exception types.
func NewHierarchy() *Hierarchy {
	h := &Hierarchy{parent: make(map[string]string)}
	for super, subs := range jdkExceptions {
		for _, sub := range subs {
			h.parent[sub] = super
		}
	}
	return h
}

// Clone returns an independent copy that can be extended without affecting h.
func (h *Hierarchy) Clone() *Hierarchy {
	c := &Hierarchy{parent: make(map[string]string, len(h.parent))}
	for k, v := range h.parent {
		c.parent[k] = v
	}
	return c
}

// Add records that child directly extends parent.
func (h *Hierarchy) Add(child, parent string) {
	child, parent = simpleName(child), simpleName(parent)
	if child == "" || parent == "" || child == parent {
		return
	}
	h.parent[child] = parent
}

// Known reports whether name was registered, either by the JDK table or Add.
func (h *Hierarchy) Known(name string) bool {
	name = simpleName(name)
	if name == "Throwable" {
		return true
	}
	_, ok := h.parent[name]
	return ok
}

func (h *Hierarchy) super(name string) (string, bool) {
	if name == "Throwable" {
		return "", false
	}
	if p, ok := h.parent[name]; ok {
		return p, true
	}
	return "Exception", true
}

// IsSubtype reports whether sub equals super or transitively extends it.
func (h *Hierarchy) IsSubtype(sub, super string) bool {
	sub, super = simpleName(sub), simpleName(super)
	seen := make(map[string]bool)
	for cur := sub; !seen[cur]; {
		if cur == super {
			return true
		}
		seen[cur] = true
		next, ok := h.super(cur)
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

// IsChecked reports whether name is a checked exception: a Throwable that is
// neither a RuntimeException nor an Error.
func (h *Hierarchy) IsChecked(name string) bool {
	return h.IsSubtype(name, "Throwable") &&
		!h.IsSubtype(name, "RuntimeException") &&
		!h.IsSubtype(name, "Error")
}

// Catches reports whether a catch clause listing types handles raised.
func (h *Hierarchy) Catches(types []string, raised string) bool {
	for _, t := range types {
		if h.IsSubtype(raised, t) {
			return true
		}
	}
	return false
}

func simpleName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
