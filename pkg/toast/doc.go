// Package toast provides transient status notifications for sitekit pages.
//
// Toasts are ordinary elements in the page DOM. The first notification
// creates a fixed-position container at the end of <body>; later ones are
// appended to it and stack. Each toast removes itself after
// Delays.Visible, playing a Delays.FadeOut exit (the "show" class is
// dropped first, the node is detached afterwards). The close button calls
// the same removal path, so a toast closed by hand and then reached by its
// auto-removal timer is handled once.
//
// # Usage
//
//	em := toast.New(doc, sched)
//	em.Error("Please correct the errors in the form")
//	em.Success("Form submitted successfully!")
//
// The message is stored as a text node and is escaped when the page is
// rendered, so markup in messages is displayed literally.
//
// There is no cap on the number of live toasts.
package toast
