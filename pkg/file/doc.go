// Package file holds the files chosen for file inputs: in-memory File
// handles, the per-file Validator (size limit and MIME allow-list) and the
// Store of per-input selections.
//
// A Selection is replaced wholesale when files are chosen, spliced and
// relabelled when one is removed, and cleared on reset:
//
//	store := file.NewStore()
//	v := file.NewValidator(messages.Defaults(), file.DefaultMaxSize, "image/*", "application/pdf")
//
//	f, err := file.Open("./avatar.png")
//	if err != nil {
//		return err
//	}
//	sel := store.Select("avatar", []file.File{f}, v)
//	for _, e := range sel.Entries() {
//		if !e.Valid() {
//			fmt.Println(e.File.Name, e.Error)
//		}
//	}
//
//	if _, err := store.Remove("avatar", 3); errors.Is(err, file.ErrIndexOutOfRange) {
//		// nothing removed
//	}
//
// Only files that pass validation are submitted; see Selection.ValidFiles.
package file
